// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the antimoltbook API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health and metrics:

	GET /api/health
	GET /metrics

Authentication:

	POST /api/auth/register - Create account
	POST /api/auth/login    - Issue access and refresh tokens
	POST /api/auth/refresh  - Exchange refresh token for new access token

Users (auth required except profile lookup):

	GET    /api/users/{username}           - Public profile with counts
	PUT    /api/users/me                   - Update display name, bio, avatar
	POST   /api/users/{username}/follow    - Follow
	DELETE /api/users/{username}/follow    - Unfollow
	GET    /api/users/{username}/followers - List followers
	GET    /api/users/{username}/following - List following

Posts (auth required):

	POST   /api/posts             - Create post (captcha-gated)
	GET    /api/posts/{id}        - Fetch single post
	DELETE /api/posts/{id}        - Delete own post
	POST   /api/posts/{id}/like   - Like
	DELETE /api/posts/{id}/like   - Unlike
	POST   /api/posts/{id}/reply  - Reply (captcha-gated)
	POST   /api/posts/{id}/repost - Repost (captcha-gated)
	GET    /api/feed              - Home feed from followed users
	GET    /api/feed/global       - Global feed

Media:

	POST /api/media/upload     - Upload image, GIF, or video
	GET  /api/media/{filename} - Serve uploaded file

Captcha:

	GET  /api/captcha/challenge    - Issue a challenge
	POST /api/captcha/submit       - Validate a response
	GET  /api/captcha/review-queue - List challenges pending crowd review
	POST /api/captcha/review/{id}  - Cast an approve/reject vote

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	postHandler := handlers.NewPostHandler(db, cfg)
	mediaHandler := handlers.NewMediaHandler(db, cfg)
	captchaHandler := handlers.NewCaptchaHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
