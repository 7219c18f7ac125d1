package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"qlo-rating-service/internal/app"
	"qlo-rating-service/internal/domain"
)

// Handler exposes the progress service over plain HTTP.
type Handler struct {
	service   *app.ProgressService
	authToken string
}

// NewHandler wires the REST surface. When authToken is non-empty, the write
// endpoints (user creation, events) require it as a bearer token.
func NewHandler(service *app.ProgressService, authToken string) *Handler {
	return &Handler{service: service, authToken: authToken}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/users", h.createUser)
	mux.HandleFunc("/events/quiz-completed", h.quizCompleted)
	mux.HandleFunc("/events/beef-finalized", h.beefFinalized)
	mux.HandleFunc("/stats/", h.stats)
	mux.HandleFunc("/achievements/", h.achievements)
	mux.HandleFunc("/history/", h.history)
	mux.HandleFunc("/leaderboard", h.leaderboard)
}

type createUserRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Country     string `json:"country"`
	County      string `json:"county"`
	City        string `json:"city"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.authorized(r) {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	state, err := h.service.CreateUser(r.Context(), req.UserID, req.DisplayName, req.Country, req.County, req.City)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handler) quizCompleted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.authorized(r) {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var ev domain.QuizCompletedEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.HandleQuizCompleted(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) beefFinalized(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.authorized(r) {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var ev domain.BeefFinalizedEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.HandleBeefFinalized(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/stats/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	snap, err := h.service.UserStats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) achievements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/achievements/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	statuses, err := h.service.Achievements(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/history/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	entries, err := h.service.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view, err := h.service.Leaderboard(r.Context(), leaderboardQueryFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func leaderboardQueryFromRequest(r *http.Request) app.LeaderboardQuery {
	q := r.URL.Query()
	return app.LeaderboardQuery{
		Metric: domain.Metric(q.Get("metric")),
		Filter: domain.LeaderboardFilter{
			GroupID: q.Get("groupId"),
			Country: q.Get("country"),
			County:  q.Get("county"),
			City:    q.Get("city"),
		},
		ViewerID: q.Get("viewerId"),
	}
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.authToken == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+h.authToken
}

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAchievementNotFound),
		errors.Is(err, domain.ErrGroupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnknownMetric):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}
