// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Crowd status constants for captcha challenges
const (
	CrowdNotNeeded     = "not_needed"
	CrowdPendingReview = "pending_review"
	CrowdApproved      = "approved"
	CrowdRejected      = "rejected"
)

// Challenge usage contexts
const (
	ContextSignup = "signup"
	ContextPost   = "post"
)

// Media type constants
const (
	MediaImage = "image"
	MediaGIF   = "gif"
	MediaVideo = "video"
)

// Request types

type RegisterRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type CreatePostRequest struct {
	Content      *string `json:"content"`
	MediaURL     *string `json:"media_url"`
	MediaType    *string `json:"media_type"`
	CaptchaToken *string `json:"captcha_token"`
}

type SubmitChallengeRequest struct {
	ChallengeID *string `json:"challenge_id"`
	Response    *string `json:"response"`
}

type SubmitReviewRequest struct {
	Approved *bool `json:"approved"`
}

// Response types

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type ChallengeResponse struct {
	ChallengeID string `json:"challenge_id"`
	Type        string `json:"type"`
	Data        string `json:"data"`
}

type SubmitChallengeResponse struct {
	Status       string `json:"status"`
	CaptchaToken string `json:"captcha_token,omitempty"`
}

type SubmitReviewResponse struct {
	Status string `json:"status"`
}

type UploadResponse struct {
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

// Domain types

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserProfile struct {
	User
	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`
	PostCount      int `json:"post_count"`
}

type Post struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    *string   `json:"content"`
	MediaURL   *string   `json:"media_url"`
	MediaType  *string   `json:"media_type"`
	ParentID   *string   `json:"parent_id"`
	RepostOfID *string   `json:"repost_of_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Challenge struct {
	ID            string    `json:"id"`
	UserID        *string   `json:"user_id"`
	ChallengeType string    `json:"challenge_type"`
	ChallengeData string    `json:"challenge_data"`
	ResponseData  *string   `json:"response_data"`
	ServerPassed  *bool     `json:"server_passed"`
	CrowdStatus   string    `json:"crowd_status"`
	Context       string    `json:"context"`
	CreatedAt     time.Time `json:"created_at"`
}

type Review struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	ReviewerID  string    `json:"reviewer_id"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
