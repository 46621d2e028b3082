package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-crowdfund/internal/config"
	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store"
	"github.com/iliyamo/movie-crowdfund/internal/utils"
)

// AuthHandler bundles dependencies for signup, login and user lookup.
type AuthHandler struct {
	Cfg   config.Config
	Users store.UserStore
}

func NewAuthHandler(cfg config.Config, users store.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // investor | creator
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates a user and returns it together with an access token so
// the client can skip a separate login round trip.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "username/email/password required"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != model.RoleCreator && role != model.RoleInvestor {
		role = model.RoleInvestor
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create user"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Username, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create user"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user, "token": token.Token})
}

// Login verifies the password and returns the user plus an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to authenticate"})
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid credentials"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Username, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to authenticate"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user, "token": token.Token})
}

// ListUsers returns every registered user. Password hashes never
// serialize because the model hides them from JSON.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch users"})
	}
	return c.JSON(http.StatusOK, users)
}

// Me echoes the identity claims injected by the JWT middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  c.Get("user_id"),
		"username": c.Get("username"),
		"role":     c.Get("role"),
	})
}
