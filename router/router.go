// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ethantrokie/antimoltbook/cliparse"
	"github.com/ethantrokie/antimoltbook/handlers"
	"github.com/ethantrokie/antimoltbook/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	postHandler := handlers.NewPostHandler(db, cfg)
	mediaHandler := handlers.NewMediaHandler(db, cfg)
	captchaHandler := handlers.NewCaptchaHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Authentication
	mux.HandleFunc("POST /api/auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /api/auth/refresh", middleware.WithLogging(authHandler.Refresh))

	// Users and the follow graph
	mux.HandleFunc("GET /api/users/{username}", middleware.WithLogging(userHandler.GetProfile))
	mux.HandleFunc("PUT /api/users/me", middleware.WithLogging(userHandler.UpdateMe))
	mux.HandleFunc("POST /api/users/{username}/follow", middleware.WithLogging(userHandler.Follow))
	mux.HandleFunc("DELETE /api/users/{username}/follow", middleware.WithLogging(userHandler.Unfollow))
	mux.HandleFunc("GET /api/users/{username}/followers", middleware.WithLogging(userHandler.Followers))
	mux.HandleFunc("GET /api/users/{username}/following", middleware.WithLogging(userHandler.Following))

	// Posts, replies, reposts, likes
	mux.HandleFunc("POST /api/posts", middleware.WithLogging(postHandler.CreatePost))
	mux.HandleFunc("GET /api/posts/{id}", middleware.WithLogging(postHandler.GetPost))
	mux.HandleFunc("DELETE /api/posts/{id}", middleware.WithLogging(postHandler.DeletePost))
	mux.HandleFunc("POST /api/posts/{id}/like", middleware.WithLogging(postHandler.Like))
	mux.HandleFunc("DELETE /api/posts/{id}/like", middleware.WithLogging(postHandler.Unlike))
	mux.HandleFunc("POST /api/posts/{id}/reply", middleware.WithLogging(postHandler.Reply))
	mux.HandleFunc("POST /api/posts/{id}/repost", middleware.WithLogging(postHandler.Repost))

	// Feeds
	mux.HandleFunc("GET /api/feed", middleware.WithLogging(postHandler.HomeFeed))
	mux.HandleFunc("GET /api/feed/global", middleware.WithLogging(postHandler.GlobalFeed))

	// Media upload and serving
	mux.HandleFunc("POST /api/media/upload", middleware.WithLogging(mediaHandler.Upload))
	mux.HandleFunc("GET /api/media/{filename}", middleware.WithLogging(mediaHandler.Serve))

	// Captcha challenges and crowd review
	mux.HandleFunc("GET /api/captcha/challenge", middleware.WithLogging(captchaHandler.GetChallenge))
	mux.HandleFunc("POST /api/captcha/submit", middleware.WithLogging(captchaHandler.Submit))
	mux.HandleFunc("GET /api/captcha/review-queue", middleware.WithLogging(captchaHandler.ReviewQueue))
	mux.HandleFunc("POST /api/captcha/review/{id}", middleware.WithLogging(captchaHandler.SubmitReview))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("antimoltbook API v1"))
	})

	return mux
}
