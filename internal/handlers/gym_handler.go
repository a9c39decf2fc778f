package handlers

import (
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
)

const (
	defaultGymSearchRadius = 5000.0 // meters
	maxGymResults          = 50
)

type GymHandler struct {
	gyms repositories.GymRepository
}

func NewGymHandler(gyms repositories.GymRepository) *GymHandler {
	return &GymHandler{gyms: gyms}
}

// SearchGyms filters the directory by free text, chain and optionally
// proximity. With coordinates present, results come back nearest first.
func (h *GymHandler) SearchGyms(c echo.Context) error {
	filters := repositories.GymSearchFilters{
		Query:     c.QueryParam("q"),
		ChainName: c.QueryParam("chain"),
		Radius:    defaultGymSearchRadius,
	}
	if v, err := strconv.ParseFloat(c.QueryParam("radius"), 64); err == nil && v > 0 {
		filters.Radius = v
	}

	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	byLocation := latErr == nil && lngErr == nil
	if byLocation {
		filters.Latitude = &lat
		filters.Longitude = &lng
	}

	gyms, err := h.gyms.SearchGyms(filters, maxGymResults)
	if err != nil {
		return apperrors.Dependency("failed to search gyms", err)
	}

	if byLocation {
		sort.SliceStable(gyms, func(i, j int) bool {
			return haversineMeters(lat, lng, gyms[i].Latitude, gyms[i].Longitude) <
				haversineMeters(lat, lng, gyms[j].Latitude, gyms[j].Longitude)
		})
	}
	return c.JSON(http.StatusOK, gyms)
}

func (h *GymHandler) GetGym(c echo.Context) error {
	gym, err := h.gyms.GetGymByID(c.Param("gymId"))
	if err != nil {
		return apperrors.FromStore(err, "gym not found", "")
	}
	return c.JSON(http.StatusOK, gym)
}

func (h *GymHandler) ListChains(c echo.Context) error {
	chains, err := h.gyms.ListChains()
	if err != nil {
		return apperrors.Dependency("failed to list chains", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"chains": chains})
}

// RegisterMembership joins the current user to a gym.
func (h *GymHandler) RegisterMembership(c echo.Context) error {
	var req models.RegisterGymRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.gyms.GetGymByID(req.GymID); err != nil {
		return apperrors.FromStore(err, "gym not found", "")
	}

	userID := currentUserID(c)
	if existing, err := h.gyms.GetMembership(userID, req.GymID); err != nil {
		return apperrors.Dependency("failed to check membership", err)
	} else if existing != nil {
		return apperrors.Duplicate("already a member of this gym")
	}

	membership := &models.GymMembership{
		UserID:    userID,
		GymID:     req.GymID,
		IsPrimary: req.IsPrimary,
	}
	if err := h.gyms.CreateMembership(membership); err != nil {
		return apperrors.FromStore(err, "gym not found", "already a member of this gym")
	}

	created, err := h.gyms.GetMembership(userID, req.GymID)
	if err != nil || created == nil {
		return c.JSON(http.StatusCreated, membership)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *GymHandler) UnregisterMembership(c echo.Context) error {
	err := h.gyms.DeleteMembership(currentUserID(c), c.Param("gymId"))
	if err != nil {
		return apperrors.FromStore(err, "membership not found", "")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GymHandler) ListMemberships(c echo.Context) error {
	memberships, err := h.gyms.ListMemberships(currentUserID(c))
	if err != nil {
		return apperrors.Dependency("failed to list memberships", err)
	}
	return c.JSON(http.StatusOK, memberships)
}

// SetPrimaryGym marks one existing membership as the user's home gym.
func (h *GymHandler) SetPrimaryGym(c echo.Context) error {
	membership, err := h.gyms.SetPrimary(currentUserID(c), c.Param("gymId"))
	if err != nil {
		return apperrors.FromStore(err, "membership not found", "")
	}
	return c.JSON(http.StatusOK, membership)
}

// haversineMeters is the great-circle distance between two coordinates.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371000.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
