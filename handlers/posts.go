// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethantrokie/antimoltbook/auth"
	"github.com/ethantrokie/antimoltbook/captcha"
	"github.com/ethantrokie/antimoltbook/cliparse"
	"github.com/ethantrokie/antimoltbook/middleware"
	"github.com/ethantrokie/antimoltbook/models"
)

type PostHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	issuer captcha.Issuer
}

func NewPostHandler(db *sql.DB, cfg cliparse.Config) *PostHandler {
	issuer := captcha.NewIssuer(cfg.JWTSecret, time.Duration(cfg.CaptchaTokenExpireMinutes)*time.Minute)
	return &PostHandler{db: db, cfg: cfg, issuer: issuer}
}

const postColumns = "id, user_id, content, media_url, media_type, parent_id, repost_of_id, created_at"

func scanPost(row interface{ Scan(...interface{}) error }) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.MediaURL, &p.MediaType, &p.ParentID, &p.RepostOfID, &p.CreatedAt)
	return p, err
}

// checkProofToken enforces the captcha gate for write operations. The
// token is optional unless CAPTCHA_REQUIRED is set; when present it must
// verify and belong to the acting user. Returns false after writing the
// error response.
func (h *PostHandler) checkProofToken(w http.ResponseWriter, userID string, token *string) bool {
	if token == nil || *token == "" {
		if h.cfg.CaptchaRequired {
			middleware.ErrorResponse(w, http.StatusForbidden, "captcha_token required")
			return false
		}
		return true
	}

	verifiedID, err := h.issuer.Verify(*token)
	if err != nil || verifiedID != userID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid captcha token")
		return false
	}
	return true
}

func (h *PostHandler) insertPost(post models.Post) error {
	_, err := h.db.Exec(`
		INSERT INTO posts (id, user_id, content, media_url, media_type, parent_id, repost_of_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, post.ID, post.UserID, post.Content, post.MediaURL, post.MediaType, post.ParentID, post.RepostOfID, post.CreatedAt)
	return err
}

// CreatePost handles POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if (req.Content == nil || *req.Content == "") && (req.MediaURL == nil || *req.MediaURL == "") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content or media_url is required")
		return
	}

	if !h.checkProofToken(w, user.ID, req.CaptchaToken) {
		return
	}

	postID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate post ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	post := models.Post{
		ID:        postID,
		UserID:    user.ID,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.insertPost(post); err != nil {
		slog.Error("failed to insert post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	slog.Info("post created", "post_id", postID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, post)
}

// GlobalFeed handles GET /api/feed/global
func (h *PostHandler) GlobalFeed(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)

	rows, err := h.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE parent_id IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		slog.Error("failed to query feed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	h.writePosts(w, rows)
}

// HomeFeed handles GET /api/feed
func (h *PostHandler) HomeFeed(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	offset, limit := parsePagination(r)

	rows, err := h.db.Query(`
		SELECT p.id, p.user_id, p.content, p.media_url, p.media_type, p.parent_id, p.repost_of_id, p.created_at
		FROM posts p
		JOIN follows f ON f.following_id = p.user_id
		WHERE f.follower_id = $1 AND p.parent_id IS NULL
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, user.ID, limit, offset)
	if err != nil {
		slog.Error("failed to query home feed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	h.writePosts(w, rows)
}

func (h *PostHandler) writePosts(w http.ResponseWriter, rows *sql.Rows) {
	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			slog.Error("failed to scan post", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		posts = append(posts, p)
	}

	middleware.JSONResponse(w, http.StatusOK, posts)
}

// GetPost handles GET /api/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")

	post, err := scanPost(h.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, postID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		slog.Error("failed to query post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	postID := r.PathValue("id")

	post, err := scanPost(h.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, postID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		slog.Error("failed to query post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if post.UserID != user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not allowed to delete this post")
		return
	}

	_, err = h.db.Exec(`DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		slog.Error("failed to delete post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /api/posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	postID := r.PathValue("id")

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	var liked bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)
	`, user.ID, postID).Scan(&liked)
	if err != nil {
		slog.Error("failed to check like", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if liked {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Already liked")
		return
	}

	likeID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate like ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to like post")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO likes (id, user_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, likeID, user.ID, postID, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert like", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to like post")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.DetailResponse{Detail: "Liked"})
}

// Unlike handles DELETE /api/posts/{id}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	postID := r.PathValue("id")

	result, err := h.db.Exec(`
		DELETE FROM likes WHERE user_id = $1 AND post_id = $2
	`, user.ID, postID)
	if err != nil {
		slog.Error("failed to delete like", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to unlike post")
		return
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Like not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reply handles POST /api/posts/{id}/reply
func (h *PostHandler) Reply(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	parentID := r.PathValue("id")

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, parentID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	var req models.CreatePostRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if (req.Content == nil || *req.Content == "") && (req.MediaURL == nil || *req.MediaURL == "") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content or media_url is required")
		return
	}

	if !h.checkProofToken(w, user.ID, req.CaptchaToken) {
		return
	}

	replyID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate reply ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create reply")
		return
	}

	reply := models.Post{
		ID:        replyID,
		UserID:    user.ID,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		ParentID:  &parentID,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.insertPost(reply); err != nil {
		slog.Error("failed to insert reply", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create reply")
		return
	}

	slog.Info("reply created", "post_id", replyID, "parent_id", parentID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, reply)
}

// Repost handles POST /api/posts/{id}/repost
func (h *PostHandler) Repost(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	originalID := r.PathValue("id")

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, originalID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	// Body is optional for reposts; it only carries captcha_token
	var req models.CreatePostRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	if !h.checkProofToken(w, user.ID, req.CaptchaToken) {
		return
	}

	repostID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate repost ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to repost")
		return
	}

	repost := models.Post{
		ID:         repostID,
		UserID:     user.ID,
		RepostOfID: &originalID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.insertPost(repost); err != nil {
		slog.Error("failed to insert repost", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to repost")
		return
	}

	slog.Info("repost created", "post_id", repostID, "repost_of_id", originalID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, repost)
}
