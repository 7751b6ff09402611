// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethantrokie/antimoltbook/captcha"
	"github.com/ethantrokie/antimoltbook/models"
	"github.com/ethantrokie/antimoltbook/testutil"
)

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    models.RegisterRequest
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.User)
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Email:       "alice@example.com",
				Username:    "alice",
				DisplayName: "Alice",
				Password:    "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.User) {
				if resp.ID == "" {
					t.Error("Expected non-empty user ID")
				}
				if resp.Username != "alice" {
					t.Errorf("Expected username alice, got %s", resp.Username)
				}

				// Password hash must never be stored in plaintext
				var hash string
				err := db.QueryRow(`
					SELECT password_hash FROM users WHERE id = $1
				`, resp.ID).Scan(&hash)
				if err != nil {
					t.Fatalf("Failed to query user: %v", err)
				}
				if hash == "password123" || hash == "" {
					t.Error("Password was not hashed")
				}
			},
		},
		{
			name: "duplicate email",
			requestBody: models.RegisterRequest{
				Email:       "alice@example.com",
				Username:    "alice2",
				DisplayName: "Alice Again",
				Password:    "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			requestBody: models.RegisterRequest{
				Email:       "alice2@example.com",
				Username:    "alice",
				DisplayName: "Alice Again",
				Password:    "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing fields",
			requestBody: models.RegisterRequest{
				Email: "bob@example.com",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/register", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.User
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestLoginAndRefresh(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(db, cfg)

	// Register through the handler so the stored hash is real
	req := testutil.MakeRequest("POST", "/api/auth/register", models.RegisterRequest{
		Email:       "alice@example.com",
		Username:    "alice",
		DisplayName: "Alice",
		Password:    "password123",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	t.Run("valid login", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		}, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.LoginResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Error("Expected both access and refresh tokens")
		}
		if resp.User.Username != "alice" {
			t.Errorf("Expected user alice, got %s", resp.User.Username)
		}

		t.Run("refresh with valid token", func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/refresh", models.RefreshRequest{
				RefreshToken: resp.RefreshToken,
			}, nil)
			w := httptest.NewRecorder()
			handler.Refresh(w, req)
			testutil.AssertStatus(t, w, http.StatusOK)

			var refreshResp models.RefreshResponse
			testutil.AssertJSON(t, w, &refreshResp)
			if refreshResp.AccessToken == "" {
				t.Error("Expected a new access token")
			}
		})
	})

	t.Run("wrong password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		}, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		}, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("refresh with captcha proof token", func(t *testing.T) {
		// A proof token asserts a passed captcha, nothing more; it must
		// not be exchangeable for a session token
		issuer := captcha.NewIssuer(cfg.JWTSecret, 5*time.Minute)
		proof, err := issuer.Issue("some-user-id")
		if err != nil {
			t.Fatalf("Failed to issue proof token: %v", err)
		}

		req := testutil.MakeRequest("POST", "/api/auth/refresh", models.RefreshRequest{
			RefreshToken: proof,
		}, nil)
		w := httptest.NewRecorder()
		handler.Refresh(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("refresh with garbage token", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/auth/refresh", models.RefreshRequest{
			RefreshToken: "not-a-jwt",
		}, nil)
		w := httptest.NewRecorder()
		handler.Refresh(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}
