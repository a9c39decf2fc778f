package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
	"github.com/MaekawaAo0604/muscle-SNS/internal/services"
)

type MatchingHandler struct {
	candidates *services.CandidateService
	matches    *services.MatchService
}

func NewMatchingHandler(candidates *services.CandidateService, matches *services.MatchService) *MatchingHandler {
	return &MatchingHandler{candidates: candidates, matches: matches}
}

// GetPotentialMatches returns scored candidates for the current user,
// best score first. Facet filters arrive as query parameters.
func (h *MatchingHandler) GetPotentialMatches(c echo.Context) error {
	filters := repositories.CandidateFilters{
		Gender:        c.QueryParam("gender"),
		TrainingLevel: c.QueryParam("training_level"),
	}
	if v, err := strconv.Atoi(c.QueryParam("age_min")); err == nil {
		filters.AgeMin = &v
	}
	if v, err := strconv.Atoi(c.QueryParam("age_max")); err == nil {
		filters.AgeMax = &v
	}
	if raw := c.QueryParam("gym_ids"); raw != "" {
		filters.GymIDs = splitNonEmpty(raw)
	}
	if raw := c.QueryParam("time_slots"); raw != "" {
		filters.TimeSlots = splitNonEmpty(raw)
	}

	limit := services.DefaultCandidateLimit
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}

	candidates, err := h.candidates.FindCandidates(currentUserID(c), filters, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// Swipe records a left/right decision and reports whether it completed a
// mutual match.
func (h *MatchingHandler) Swipe(c echo.Context) error {
	var req models.SwipeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.matches.RecordSwipe(currentUserID(c), req.ToUserID, req.Direction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *MatchingHandler) ListMatches(c echo.Context) error {
	matches, err := h.matches.ListMatches(currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

func (h *MatchingHandler) GetMatch(c echo.Context) error {
	detail, err := h.matches.GetMatch(c.Param("matchId"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// DissolveMatch deactivates a match for both sides. Repeating the call is
// a no-op.
func (h *MatchingHandler) DissolveMatch(c echo.Context) error {
	if err := h.matches.DissolveMatch(c.Param("matchId"), currentUserID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func splitNonEmpty(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
