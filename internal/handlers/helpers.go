package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func currentUserID(c echo.Context) string {
	id, _ := c.Get("userID").(string)
	return id
}

// pageParams parses page/limit query parameters, falling back to sane
// defaults and capping limit to keep result sets bounded.
func pageParams(c echo.Context, defaultLimit, maxLimit int) (page, limit int) {
	page = 1
	limit = defaultLimit
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
