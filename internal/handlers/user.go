package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
	"github.com/MaekawaAo0604/muscle-SNS/pkg/cloudinary"
)

const profileImageFolder = "muscle-matching/profiles"

type UserHandler struct {
	users    repositories.UserRepository
	uploader cloudinary.Uploader
}

func NewUserHandler(users repositories.UserRepository, uploader cloudinary.Uploader) *UserHandler {
	return &UserHandler{users: users, uploader: uploader}
}

// GetMe returns the authenticated user's full profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.users.GetUserByID(currentUserID(c))
	if err != nil {
		return apperrors.FromStore(err, "user not found", "")
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser returns another user's public profile.
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.users.GetUserByID(c.Param("userId"))
	if err != nil {
		return apperrors.FromStore(err, "user not found", "")
	}
	if !user.IsActive {
		return apperrors.NotFound("user not found")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies partial updates to the account fields and upserts
// the training profile when any training field is present.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.GetUserByID(currentUserID(c))
	if err != nil {
		return apperrors.FromStore(err, "user not found", "")
	}

	if req.Nickname != "" {
		user.Nickname = req.Nickname
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if err := h.users.UpdateUser(user); err != nil {
		return apperrors.Dependency("failed to update profile", err)
	}

	if hasTrainingFields(&req) {
		profile := user.TrainingProfile
		if profile == nil {
			profile = &models.TrainingProfile{UserID: user.ID}
		}
		if req.ExperienceYears != nil {
			profile.ExperienceYears = *req.ExperienceYears
		}
		if req.FrequencyPerWeek != nil {
			profile.FrequencyPerWeek = *req.FrequencyPerWeek
		}
		if req.BenchPressWeight != nil {
			profile.BenchPressWeight = *req.BenchPressWeight
		}
		if req.SquatWeight != nil {
			profile.SquatWeight = *req.SquatWeight
		}
		if req.DeadliftWeight != nil {
			profile.DeadliftWeight = *req.DeadliftWeight
		}
		if req.FavoriteBodyParts != "" {
			profile.FavoriteBodyParts = req.FavoriteBodyParts
		}
		if req.TrainingGoals != "" {
			profile.TrainingGoals = req.TrainingGoals
		}
		if req.PreferredTimeSlots != "" {
			profile.PreferredTimeSlots = req.PreferredTimeSlots
		}
		if err := h.users.UpsertTrainingProfile(profile); err != nil {
			return apperrors.Dependency("failed to save training profile", err)
		}
		user.TrainingProfile = profile
	}

	return c.JSON(http.StatusOK, user)
}

// UploadProfileImage accepts a multipart image, stores it in the media CDN
// and records the delivered URL on the profile.
func (h *UserHandler) UploadProfileImage(c echo.Context) error {
	if h.uploader == nil {
		return apperrors.Dependency("image uploads are not configured", nil)
	}

	data, err := readImageFile(c, "image")
	if err != nil {
		return err
	}

	userID := currentUserID(c)
	current, err := h.users.GetUserByID(userID)
	if err != nil {
		return apperrors.FromStore(err, "user not found", "")
	}

	url, err := h.uploader.Upload(c.Request().Context(), data, profileImageFolder)
	if err != nil {
		return apperrors.Dependency("failed to upload image", err)
	}

	if err := h.users.UpdateProfileImage(userID, url); err != nil {
		return apperrors.Dependency("failed to save image url", err)
	}

	// The replaced image is garbage; removing it is best effort.
	if current.ProfileImageURL != "" {
		if publicID := cloudinary.PublicIDFromURL(current.ProfileImageURL, profileImageFolder); publicID != "" {
			_ = h.uploader.Delete(c.Request().Context(), publicID)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"profile_image_url": url})
}

func hasTrainingFields(req *models.UpdateProfileRequest) bool {
	return req.ExperienceYears != nil || req.FrequencyPerWeek != nil ||
		req.BenchPressWeight != nil || req.SquatWeight != nil || req.DeadliftWeight != nil ||
		req.FavoriteBodyParts != "" || req.TrainingGoals != "" || req.PreferredTimeSlots != ""
}

// readImageFile pulls the named multipart file, enforcing the image MIME
// type and upload size cap.
func readImageFile(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, apperrors.Validation("image file is required")
	}
	if fh.Size > cloudinary.MaxUploadBytes {
		return nil, apperrors.Validation("image exceeds the 10MB limit")
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.Validation("only image files are accepted")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Dependency("failed to read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, cloudinary.MaxUploadBytes+1))
	if err != nil {
		return nil, apperrors.Dependency("failed to read upload", err)
	}
	if int64(len(data)) > cloudinary.MaxUploadBytes {
		return nil, apperrors.Validation("image exceeds the 10MB limit")
	}
	return data, nil
}
