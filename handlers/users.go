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

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// getUserByUsername loads a user row or returns sql.ErrNoRows
func getUserByUsername(db *sql.DB, username string) (models.User, error) {
	var user models.User
	err := db.QueryRow(`
		SELECT id, email, username, display_name, bio, avatar_url, created_at
		FROM users WHERE username = $1
	`, username).Scan(
		&user.ID, &user.Email, &user.Username, &user.DisplayName,
		&user.Bio, &user.AvatarURL, &user.CreatedAt,
	)
	return user, err
}

// GetProfile handles GET /api/users/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := getUserByUsername(h.db, username)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	profile := models.UserProfile{User: user}
	err = h.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $2),
			(SELECT COUNT(*) FROM posts WHERE user_id = $3)
	`, user.ID, user.ID, user.ID).Scan(&profile.FollowerCount, &profile.FollowingCount, &profile.PostCount)

	if err != nil {
		slog.Error("failed to count profile stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, profile)
}

// UpdateMe handles PUT /api/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Only provided fields change
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	_, err := h.db.Exec(`
		UPDATE users
		SET display_name = $1, bio = $2, avatar_url = $3, updated_at = $4
		WHERE id = $5
	`, user.DisplayName, user.Bio, user.AvatarURL, time.Now().UTC(), user.ID)

	if err != nil {
		slog.Error("failed to update user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// Follow handles POST /api/users/{username}/follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	target, err := getUserByUsername(h.db, r.PathValue("username"))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if target.ID == user.ID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	}

	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)
	`, user.ID, target.ID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check follow", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Already following")
		return
	}

	followID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate follow ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to follow")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, followID, user.ID, target.ID, time.Now().UTC())

	if err != nil {
		slog.Error("failed to insert follow", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to follow")
		return
	}

	slog.Info("user followed", "follower_id", user.ID, "following_id", target.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.DetailResponse{Detail: "Followed"})
}

// Unfollow handles DELETE /api/users/{username}/follow
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	target, err := getUserByUsername(h.db, r.PathValue("username"))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := h.db.Exec(`
		DELETE FROM follows WHERE follower_id = $1 AND following_id = $2
	`, user.ID, target.ID)
	if err != nil {
		slog.Error("failed to delete follow", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to unfollow")
		return
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not following this user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Followers handles GET /api/users/{username}/followers
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listFollowEdges(w, r, `
		SELECT u.id, u.email, u.username, u.display_name, u.bio, u.avatar_url, u.created_at
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`)
}

// Following handles GET /api/users/{username}/following
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.listFollowEdges(w, r, `
		SELECT u.id, u.email, u.username, u.display_name, u.bio, u.avatar_url, u.created_at
		FROM users u
		JOIN follows f ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`)
}

func (h *UserHandler) listFollowEdges(w http.ResponseWriter, r *http.Request, query string) {
	target, err := getUserByUsername(h.db, r.PathValue("username"))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	offset, limit := parsePagination(r)

	rows, err := h.db.Query(query, target.ID, limit, offset)
	if err != nil {
		slog.Error("failed to query follow edges", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.Bio, &u.AvatarURL, &u.CreatedAt); err != nil {
			slog.Error("failed to scan user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		users = append(users, u)
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}
