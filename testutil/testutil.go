// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ethantrokie/antimoltbook/auth"
	"github.com/ethantrokie/antimoltbook/cliparse"
	"github.com/ethantrokie/antimoltbook/db"
	"github.com/ethantrokie/antimoltbook/models"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// Each call gets its own named database so parallel tests never share state.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name, err := auth.GenerateID(8)
	if err != nil {
		t.Fatalf("Failed to generate database name: %v", err)
	}

	conn, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Shared-cache in-memory databases vanish when the last connection
	// closes, so pin one open for the test's lifetime
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                      8000,
		DatabaseType:              "sqlite",
		JWTSecret:                 "test-jwt-secret",
		UploadDir:                 "",
		AccessTokenExpireMinutes:  30,
		RefreshTokenExpireDays:    7,
		CaptchaTokenExpireMinutes: 5,
		MaxGIFSize:                5 * 1024 * 1024,
		MaxVideoSize:              10 * 1024 * 1024,
	}
}

// CreateTestUser inserts a user and returns its ID plus a valid access token
func CreateTestUser(t *testing.T, conn *sql.DB, cfg cliparse.Config, username string) (userID, accessToken string) {
	t.Helper()

	userID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate user ID: %v", err)
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO users (id, email, username, display_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, username+"@example.com", username, username, hash, now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	accessToken, err = auth.CreateToken(cfg.JWTSecret, auth.Claims{UserID: userID}, 30*time.Minute)
	if err != nil {
		t.Fatalf("Failed to create access token: %v", err)
	}

	return userID, accessToken
}

// CreateTestChallenge inserts a captcha challenge row and returns its ID
func CreateTestChallenge(t *testing.T, conn *sql.DB, userID, challengeType, challengeData, crowdStatus string) string {
	t.Helper()

	challengeID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate challenge ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO captcha_challenge (id, user_id, challenge_type, challenge_data, crowd_status, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, challengeID, userID, challengeType, challengeData, crowdStatus, models.ContextPost, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test challenge: %v", err)
	}

	return challengeID
}

// CreateTestPost inserts a post and returns its ID
func CreateTestPost(t *testing.T, conn *sql.DB, userID, content string) string {
	t.Helper()

	postID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate post ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO posts (id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
	`, postID, userID, content, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return postID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeader builds the Authorization header map for a bearer token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
