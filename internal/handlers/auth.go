package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
)

const tokenLifetime = 72 * time.Hour

type AuthHandler struct {
	users     repositories.UserRepository
	jwtSecret string
}

func NewAuthHandler(users repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

// Register creates a local account with a bcrypt password hash and
// returns a signed session token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if existing, err := h.users.GetUserByEmail(req.Email); err != nil && err != gorm.ErrRecordNotFound {
		return apperrors.Dependency("failed to check existing account", err)
	} else if existing != nil {
		return apperrors.Duplicate("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Dependency("failed to hash password", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Nickname:     req.Nickname,
		Age:          req.Age,
		Gender:       req.Gender,
		IsActive:     true,
	}
	if err := h.users.CreateUser(user); err != nil {
		return apperrors.FromStore(err, "user not found", "an account with this email already exists")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Dependency("failed to issue token", err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user.Summary(),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil || user == nil {
		return apperrors.Auth("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return apperrors.Auth("invalid email or password")
	}
	if !user.IsActive {
		return apperrors.Auth("account is deactivated")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Dependency("failed to issue token", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Summary(),
	})
}

// SyncUser upserts a local profile for a verified federated identity.
// The Firebase UID becomes the local primary key so relations stay
// stable across providers.
func (h *AuthHandler) SyncUser(c echo.Context) error {
	uid, _ := c.Get("firebaseUID").(string)
	if uid == "" {
		return apperrors.Auth("missing federated identity")
	}
	email, _ := c.Get("email").(string)

	var req models.SyncUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	user, err := h.users.GetUserByEmail(email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return apperrors.Dependency("failed to load user", err)
	}

	status := http.StatusOK
	if user == nil {
		nickname := req.DisplayName
		if nickname == "" {
			nickname = strings.SplitN(email, "@", 2)[0]
		}
		user = &models.User{
			ID:       uid,
			Email:    email,
			Nickname: nickname,
			IsActive: true,
		}
		if err := h.users.CreateUser(user); err != nil {
			return apperrors.FromStore(err, "user not found", "account already exists")
		}
		status = http.StatusCreated
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return apperrors.Dependency("failed to issue token", err)
	}
	return c.JSON(status, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
