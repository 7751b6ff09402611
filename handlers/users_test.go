// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethantrokie/antimoltbook/models"
	"github.com/ethantrokie/antimoltbook/testutil"
)

func TestGetProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	aliceID, _ := testutil.CreateTestUser(t, db, cfg, "alice")
	testutil.CreateTestPost(t, db, aliceID, "first post")
	testutil.CreateTestPost(t, db, aliceID, "second post")

	t.Run("existing user with counts", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/users/alice", nil, nil)
		req.SetPathValue("username", "alice")
		w := httptest.NewRecorder()
		handler.GetProfile(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var profile models.UserProfile
		testutil.AssertJSON(t, w, &profile)
		if profile.Username != "alice" {
			t.Errorf("Expected username alice, got %s", profile.Username)
		}
		if profile.PostCount != 2 {
			t.Errorf("Expected 2 posts, got %d", profile.PostCount)
		}
		if profile.FollowerCount != 0 || profile.FollowingCount != 0 {
			t.Error("Expected zero follow counts for a fresh user")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/users/ghost", nil, nil)
		req.SetPathValue("username", "ghost")
		w := httptest.NewRecorder()
		handler.GetProfile(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestUpdateMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	userID, token := testutil.CreateTestUser(t, db, cfg, "alice")

	req := testutil.MakeRequest("PUT", "/api/users/me", models.UpdateProfileRequest{
		Bio: strPtr("hello there"),
	}, testutil.AuthHeader(token))
	w := httptest.NewRecorder()
	handler.UpdateMe(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.User
	testutil.AssertJSON(t, w, &resp)
	if resp.Bio == nil || *resp.Bio != "hello there" {
		t.Error("Expected updated bio in response")
	}

	// Unprovided fields stay untouched
	var displayName string
	if err := db.QueryRow(`SELECT display_name FROM users WHERE id = $1`, userID).Scan(&displayName); err != nil {
		t.Fatalf("Failed to query user: %v", err)
	}
	if displayName != "alice" {
		t.Errorf("Expected display_name alice, got %s", displayName)
	}
}

func TestFollowUnfollow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	testutil.CreateTestUser(t, db, cfg, "alice")
	_, bobToken := testutil.CreateTestUser(t, db, cfg, "bob")

	follow := func(t *testing.T, username string) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.MakeRequest("POST", "/api/users/"+username+"/follow", nil, testutil.AuthHeader(bobToken))
		req.SetPathValue("username", username)
		w := httptest.NewRecorder()
		handler.Follow(w, req)
		return w
	}

	testutil.AssertStatus(t, follow(t, "alice"), http.StatusCreated)
	testutil.AssertStatus(t, follow(t, "alice"), http.StatusBadRequest) // already following
	testutil.AssertStatus(t, follow(t, "bob"), http.StatusBadRequest)   // self-follow
	testutil.AssertStatus(t, follow(t, "ghost"), http.StatusNotFound)

	t.Run("follower listing", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/users/alice/followers", nil, nil)
		req.SetPathValue("username", "alice")
		w := httptest.NewRecorder()
		handler.Followers(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var followers []models.User
		testutil.AssertJSON(t, w, &followers)
		if len(followers) != 1 || followers[0].Username != "bob" {
			t.Errorf("Expected bob as sole follower, got %+v", followers)
		}
	})

	t.Run("following listing", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/users/bob/following", nil, nil)
		req.SetPathValue("username", "bob")
		w := httptest.NewRecorder()
		handler.Following(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var following []models.User
		testutil.AssertJSON(t, w, &following)
		if len(following) != 1 || following[0].Username != "alice" {
			t.Errorf("Expected alice as sole followee, got %+v", following)
		}
	})

	unfollow := func(t *testing.T, username string) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.MakeRequest("DELETE", "/api/users/"+username+"/follow", nil, testutil.AuthHeader(bobToken))
		req.SetPathValue("username", username)
		w := httptest.NewRecorder()
		handler.Unfollow(w, req)
		return w
	}

	testutil.AssertStatus(t, unfollow(t, "alice"), http.StatusNoContent)
	testutil.AssertStatus(t, unfollow(t, "alice"), http.StatusNotFound) // no edge left
}
