// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethantrokie/antimoltbook/auth"
	"github.com/ethantrokie/antimoltbook/cliparse"
	"github.com/ethantrokie/antimoltbook/middleware"
	"github.com/ethantrokie/antimoltbook/models"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Email == "" || req.Username == "" || req.DisplayName == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email, username, display_name and password are required")
		return
	}

	// Check for an existing account first for a friendly error; the
	// UNIQUE constraints are the real guard
	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM users WHERE email = $1 OR username = $2
		)
	`, req.Email, req.Username).Scan(&exists)
	if err != nil {
		slog.Error("failed to check existing user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email or username already taken")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	userID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate user ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	now := time.Now().UTC()
	_, err = h.db.Exec(`
		INSERT INTO users (id, email, username, display_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, req.Email, req.Username, req.DisplayName, passwordHash, now, now)

	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", userID, "username", req.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.User{
		ID:          userID,
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		CreatedAt:   now,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	var passwordHash string
	err := h.db.QueryRow(`
		SELECT id, email, username, display_name, bio, avatar_url, password_hash, created_at
		FROM users WHERE email = $1
	`, req.Email).Scan(
		&user.ID, &user.Email, &user.Username, &user.DisplayName,
		&user.Bio, &user.AvatarURL, &passwordHash, &user.CreatedAt,
	)

	if err == sql.ErrNoRows || (err == nil && !auth.CheckPassword(req.Password, passwordHash)) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	accessToken, err := h.accessToken(user)
	if err != nil {
		slog.Error("failed to create access token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	refreshToken, err := h.refreshToken(user)
	if err != nil {
		slog.Error("failed to create refresh token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.RefreshToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	// Captcha proof tokens carry a type tag and must never refresh into a
	// session token
	claims, err := auth.ParseToken(h.cfg.JWTSecret, req.RefreshToken)
	if err != nil || claims.TokenType != "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	accessToken, err := auth.CreateToken(h.cfg.JWTSecret, auth.Claims{
		UserID:           claims.UserID,
		RegisteredClaims: claimsSubject(claims.Subject),
	}, time.Duration(h.cfg.AccessTokenExpireMinutes)*time.Minute)
	if err != nil {
		slog.Error("failed to create access token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to refresh")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RefreshResponse{
		AccessToken: accessToken,
	})
}

func (h *AuthHandler) accessToken(user models.User) (string, error) {
	return auth.CreateToken(h.cfg.JWTSecret, auth.Claims{
		UserID:           user.ID,
		RegisteredClaims: claimsSubject(user.Username),
	}, time.Duration(h.cfg.AccessTokenExpireMinutes)*time.Minute)
}

func (h *AuthHandler) refreshToken(user models.User) (string, error) {
	return auth.CreateToken(h.cfg.JWTSecret, auth.Claims{
		UserID:           user.ID,
		RegisteredClaims: claimsSubject(user.Username),
	}, time.Duration(h.cfg.RefreshTokenExpireDays)*24*time.Hour)
}
