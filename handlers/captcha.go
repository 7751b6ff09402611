// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethantrokie/antimoltbook/auth"
	"github.com/ethantrokie/antimoltbook/captcha"
	"github.com/ethantrokie/antimoltbook/cliparse"
	"github.com/ethantrokie/antimoltbook/middleware"
	"github.com/ethantrokie/antimoltbook/models"
)

type CaptchaHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	issuer captcha.Issuer

	// genMu serializes the generator's rand source
	genMu sync.Mutex
	gen   *captcha.Generator
}

func NewCaptchaHandler(db *sql.DB, cfg cliparse.Config) *CaptchaHandler {
	return NewCaptchaHandlerWithGenerator(db, cfg,
		captcha.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))))
}

// NewCaptchaHandlerWithGenerator injects a seeded generator, used by tests
// for deterministic challenge selection
func NewCaptchaHandlerWithGenerator(db *sql.DB, cfg cliparse.Config, gen *captcha.Generator) *CaptchaHandler {
	issuer := captcha.NewIssuer(cfg.JWTSecret, time.Duration(cfg.CaptchaTokenExpireMinutes)*time.Minute)
	return &CaptchaHandler{db: db, cfg: cfg, issuer: issuer, gen: gen}
}

// GetChallenge handles GET /api/captcha/challenge
func (h *CaptchaHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	kind, err := captcha.ParseKind(r.URL.Query().Get("type"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown challenge type")
		return
	}

	context := r.URL.Query().Get("context")
	if context == "" {
		context = models.ContextPost
	}
	if context != models.ContextSignup && context != models.ContextPost {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown challenge context")
		return
	}

	h.genMu.Lock()
	kind, data, err := h.gen.Generate(kind)
	h.genMu.Unlock()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown challenge type")
		return
	}

	challengeID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate challenge ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create challenge")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO captcha_challenge (id, user_id, challenge_type, challenge_data, crowd_status, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, challengeID, user.ID, string(kind), data, models.CrowdNotNeeded, context, time.Now().UTC())

	if err != nil {
		slog.Error("failed to insert challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create challenge")
		return
	}

	slog.Info("challenge issued", "challenge_id", challengeID, "type", kind, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.ChallengeResponse{
		ChallengeID: challengeID,
		Type:        string(kind),
		Data:        data,
	})
}

// Submit handles POST /api/captcha/submit
func (h *CaptchaHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	var req models.SubmitChallengeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ChallengeID == nil || req.Response == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing challenge_id or response")
		return
	}

	var challengeType, challengeData string
	err := h.db.QueryRow(`
		SELECT challenge_type, challenge_data FROM captcha_challenge WHERE id = $1
	`, *req.ChallengeID).Scan(&challengeType, &challengeData)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Challenge not found")
		return
	}
	if err != nil {
		slog.Error("failed to query challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	outcome := captcha.Validate(captcha.Kind(challengeType), challengeData, *req.Response)
	middleware.CaptchaOutcomes.WithLabelValues(challengeType, string(outcome)).Inc()

	_, err = h.db.Exec(`
		UPDATE captcha_challenge
		SET response_data = $1, server_passed = $2
		WHERE id = $3
	`, *req.Response, outcome == captcha.Passed, *req.ChallengeID)

	if err != nil {
		slog.Error("failed to update challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record response")
		return
	}

	// Escalation is one-way: a resubmission may move not_needed to
	// pending_review but never rewrites a crowd verdict
	if outcome == captcha.PendingReview {
		_, err = h.db.Exec(`
			UPDATE captcha_challenge SET crowd_status = $1
			WHERE id = $2 AND crowd_status = $3
		`, models.CrowdPendingReview, *req.ChallengeID, models.CrowdNotNeeded)
		if err != nil {
			slog.Error("failed to escalate challenge", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record response")
			return
		}
	}

	slog.Info("challenge submitted",
		"challenge_id", *req.ChallengeID, "type", challengeType, "outcome", outcome, "user_id", user.ID)

	switch outcome {
	case captcha.Passed:
		token, err := h.issuer.Issue(user.ID)
		if err != nil {
			slog.Error("failed to issue captcha token", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.SubmitChallengeResponse{
			Status:       string(captcha.Passed),
			CaptchaToken: token,
		})
	case captcha.PendingReview:
		middleware.JSONResponse(w, http.StatusOK, models.SubmitChallengeResponse{
			Status: string(captcha.PendingReview),
		})
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "failed")
	}
}

// ReviewQueue handles GET /api/captcha/review-queue
func (h *CaptchaHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	// Reviewers never see their own challenges
	rows, err := h.db.Query(`
		SELECT id, user_id, challenge_type, challenge_data, response_data, server_passed, crowd_status, context, created_at
		FROM captcha_challenge
		WHERE crowd_status = $1 AND (user_id IS NULL OR user_id != $2)
		ORDER BY created_at
	`, models.CrowdPendingReview, user.ID)
	if err != nil {
		slog.Error("failed to query review queue", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		var c models.Challenge
		var serverPassed sql.NullBool
		if err := rows.Scan(&c.ID, &c.UserID, &c.ChallengeType, &c.ChallengeData,
			&c.ResponseData, &serverPassed, &c.CrowdStatus, &c.Context, &c.CreatedAt); err != nil {
			slog.Error("failed to scan challenge", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if serverPassed.Valid {
			c.ServerPassed = &serverPassed.Bool
		}
		challenges = append(challenges, c)
	}

	middleware.JSONResponse(w, http.StatusOK, challenges)
}

// SubmitReview handles POST /api/captcha/review/{id}
func (h *CaptchaHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.db, h.cfg.JWTSecret)
	if !ok {
		return
	}

	challengeID := r.PathValue("id")

	var req models.SubmitReviewRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Approved == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing approved field")
		return
	}

	// Vote append and quorum recount share one transaction so that two
	// concurrent reviewers cannot both see a pre-quorum count and leave
	// the challenge unresolved
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var crowdStatus string
	err = tx.QueryRow(`
		SELECT crowd_status FROM captcha_challenge WHERE id = $1
	`, challengeID).Scan(&crowdStatus)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Challenge not found")
		return
	}
	if err != nil {
		slog.Error("failed to query challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Terminal states accept no further votes
	if crowdStatus == models.CrowdApproved || crowdStatus == models.CrowdRejected {
		middleware.ErrorResponse(w, http.StatusConflict, "Challenge already resolved")
		return
	}

	reviewID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate review ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record review")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO captcha_review (id, challenge_id, reviewer_id, approved, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, reviewID, challengeID, user.ID, *req.Approved, time.Now().UTC())

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key value") {
			middleware.ErrorResponse(w, http.StatusConflict, "Already reviewed this challenge")
			return
		}
		slog.Error("failed to insert review", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record review")
		return
	}

	// Recount every vote ever cast, not just the delta
	var approvals, rejections int
	err = tx.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN approved THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN approved THEN 0 ELSE 1 END), 0)
		FROM captcha_review WHERE challenge_id = $1
	`, challengeID).Scan(&approvals, &rejections)

	if err != nil {
		slog.Error("failed to count reviews", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record review")
		return
	}

	newStatus, resolved := captcha.ResolveQuorum(approvals, rejections)
	if resolved {
		_, err = tx.Exec(`
			UPDATE captcha_challenge SET crowd_status = $1 WHERE id = $2
		`, newStatus, challengeID)
		if err != nil {
			slog.Error("failed to update crowd status", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record review")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record review")
		return
	}

	if resolved {
		middleware.CrowdResolutions.WithLabelValues(newStatus).Inc()
		slog.Info("challenge resolved by crowd",
			"challenge_id", challengeID, "status", newStatus, "approvals", approvals, "rejections", rejections)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitReviewResponse{Status: "recorded"})
}
