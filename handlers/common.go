// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ethantrokie/antimoltbook/auth"
	"github.com/ethantrokie/antimoltbook/middleware"
	"github.com/ethantrokie/antimoltbook/models"
)

func claimsSubject(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: sub}
}

// requireUser resolves the Authorization bearer token to a user row. On
// failure it writes a 401 and returns ok=false. Proof tokens carry a type
// tag and are rejected here so they can never double as session tokens.
func requireUser(w http.ResponseWriter, r *http.Request, db *sql.DB, jwtSecret string) (models.User, bool) {
	token := middleware.BearerToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization required")
		return models.User{}, false
	}

	claims, err := auth.ParseToken(jwtSecret, token)
	if err != nil || claims.TokenType != "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return models.User{}, false
	}

	var user models.User
	err = db.QueryRow(`
		SELECT id, email, username, display_name, bio, avatar_url, created_at
		FROM users WHERE id = $1
	`, claims.UserID).Scan(
		&user.ID, &user.Email, &user.Username, &user.DisplayName,
		&user.Bio, &user.AvatarURL, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "User not found")
		return models.User{}, false
	}
	if err != nil {
		slog.Error("failed to load user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.User{}, false
	}

	return user, true
}

// parsePagination reads offset/limit query params with the feed defaults
// (offset 0, limit 20, limit capped at 100)
func parsePagination(r *http.Request) (offset, limit int) {
	offset = 0
	limit = 20

	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 && v <= 100 {
			limit = v
		}
	}
	return offset, limit
}
