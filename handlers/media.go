// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/ethantrokie/antimoltbook/cliparse"
	"github.com/ethantrokie/antimoltbook/middleware"
	"github.com/ethantrokie/antimoltbook/models"
)

type MediaHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMediaHandler(db *sql.DB, cfg cliparse.Config) *MediaHandler {
	return &MediaHandler{db: db, cfg: cfg}
}

// mediaKind maps an upload content type to its media category and whether
// the gif or video size limit applies
func (h *MediaHandler) mediaKind(contentType string) (kind string, maxSize int64, ok bool) {
	switch contentType {
	case "image/gif":
		return models.MediaGIF, h.cfg.MaxGIFSize, true
	case "image/png", "image/jpeg":
		return models.MediaImage, h.cfg.MaxGIFSize, true
	case "video/mp4", "video/webm":
		return models.MediaVideo, h.cfg.MaxVideoSize, true
	}
	return "", 0, false
}

// Upload handles POST /api/media/upload
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	kind, maxSize, ok := h.mediaKind(contentType)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	// Read one byte past the limit to detect oversized uploads without
	// buffering arbitrarily large bodies
	content, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		slog.Error("failed to read upload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	if int64(len(content)) > maxSize {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
			"File exceeds the "+humanize.Bytes(uint64(maxSize))+" limit")
		return
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		slog.Error("failed to create upload dir", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	ext := "bin"
	if idx := strings.LastIndex(header.Filename, "."); idx >= 0 && idx < len(header.Filename)-1 {
		ext = header.Filename[idx+1:]
	}
	filename := uuid.NewString() + "." + ext

	if err := os.WriteFile(filepath.Join(h.cfg.UploadDir, filename), content, 0o644); err != nil {
		slog.Error("failed to write upload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	slog.Info("media uploaded", "user_id", user.ID, "filename", filename, "media_type", kind, "bytes", len(content))

	middleware.JSONResponse(w, http.StatusCreated, models.UploadResponse{
		URL:       "/api/media/" + filename,
		MediaType: kind,
	})
}

// Serve handles GET /api/media/{filename}
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	// Refuse path traversal outright
	if filename == "" || filename != filepath.Base(filename) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	path := filepath.Join(h.cfg.UploadDir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		middleware.ErrorResponse(w, http.StatusNotFound, "File not found")
		return
	}

	http.ServeFile(w, r, path)
}
