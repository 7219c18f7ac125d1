package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qlo-rating-service/internal/achievement"
	"qlo-rating-service/internal/app"
	"qlo-rating-service/internal/domain"
	"qlo-rating-service/internal/infra/memory"
)

var testNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, authToken string) (*httptest.Server, *app.ProgressService) {
	t.Helper()
	ratings := memory.NewRatingStore()
	service := app.NewProgressService(app.Deps{
		Ratings:      ratings,
		History:      memory.NewHistoryStore(),
		Records:      memory.NewRecordStore(),
		Achievements: memory.NewAchievementStore(achievement.DefaultCatalog()),
		Resources:    memory.NewStaticResourceCounter(),
		Population:   ratings,
	}, app.WithClock(func() time.Time { return testNow }))

	mux := http.NewServeMux()
	NewHandler(service, authToken).Register(mux)
	mux.HandleFunc("/ws/leaderboard", NewWSHandler(service).ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, service
}

func postJSON(t *testing.T, url, token string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestCreateUserAndQuizFlow(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/users", "", createUserRequest{UserID: "u1", DisplayName: "Alice"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d", resp.StatusCode)
	}
	var created domain.UserRatingState
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created user: %v", err)
	}
	resp.Body.Close()
	if created.QLO != domain.BaselineQLO {
		t.Fatalf("new user QLO = %d, want %d", created.QLO, domain.BaselineQLO)
	}

	resp = postJSON(t, server.URL+"/events/quiz-completed", "", domain.QuizCompletedEvent{
		UserID: "u1", ScorePercent: 80, Category: "math", TotalQuestions: 10, Timestamp: testNow,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("quiz event status = %d", resp.StatusCode)
	}

	resp, err := http.Get(server.URL + "/stats/u1")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", resp.StatusCode)
	}
	var snap domain.StatsSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if snap.QLO != 5041 {
		t.Fatalf("QLO after quiz = %d, want 5041", snap.QLO)
	}
	if snap.QuizCount != 1 {
		t.Fatalf("QuizCount = %d, want 1", snap.QuizCount)
	}
}

func TestWriteEndpointsRequireToken(t *testing.T) {
	server, _ := newTestServer(t, "sekrit")

	resp := postJSON(t, server.URL+"/users", "", createUserRequest{UserID: "u1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/users", "wrong", createUserRequest{UserID: "u1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d, want 401", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/users", "sekrit", createUserRequest{UserID: "u1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("valid token status = %d, want 201", resp.StatusCode)
	}
}

func TestUnknownUserReturns404(t *testing.T) {
	server, _ := newTestServer(t, "")

	for _, path := range []string{"/stats/ghost", "/achievements/ghost", "/history/ghost"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestDuplicateUserReturns409(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/users", "", createUserRequest{UserID: "u1"})
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/users", "", createUserRequest{UserID: "u1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate user status = %d, want 409", resp.StatusCode)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	server, service := newTestServer(t, "")
	ctx := context.Background()

	for _, u := range []string{"u1", "u2", "u3"} {
		if _, err := service.CreateUser(ctx, u, "Player "+u, "", "", ""); err != nil {
			t.Fatalf("create %s: %v", u, err)
		}
	}
	if err := service.HandleQuizCompleted(ctx, domain.QuizCompletedEvent{
		UserID: "u2", ScorePercent: 90, Category: "math", TotalQuestions: 10, Timestamp: testNow,
	}); err != nil {
		t.Fatalf("handle quiz: %v", err)
	}

	resp, err := http.Get(server.URL + "/leaderboard?metric=qlo&viewerId=u3")
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard status = %d", resp.StatusCode)
	}
	var view domain.LeaderboardView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if view.TotalCount != 3 || len(view.Displayed) != 3 {
		t.Fatalf("unexpected leaderboard view: %+v", view)
	}
	if view.Displayed[0].UserID != "u2" || view.Displayed[0].Rank != 1 {
		t.Fatalf("expected u2 on top, got %+v", view.Displayed[0])
	}
	if view.ViewerRank == nil || *view.ViewerRank != 2 {
		t.Fatalf("viewer rank = %v, want 2 (tied at baseline)", view.ViewerRank)
	}
}

func TestLeaderboardRejectsUnknownMetric(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/leaderboard?metric=bogus")
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown metric status = %d, want 400", resp.StatusCode)
	}
}
