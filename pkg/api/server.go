package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"netcheck/pkg/auth"
	"netcheck/pkg/store"
)

// Server is the controller: login authority plus central submission log.
type Server struct {
	users       store.UserStore
	submissions store.SubmissionStore
	signer      *auth.Signer
	log         *zap.Logger
	hub         *WSHub
}

func NewServer(users store.UserStore, submissions store.SubmissionStore, signer *auth.Signer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{users: users, submissions: submissions, signer: signer, log: log}
	s.hub = NewWSHub(submissions, log.Named("ws"))
	return s
}

// Hub exposes the websocket hub.
func (s *Server) Hub() *WSHub { return s.hub }

// RegisterRoutes wires the HTTP handlers on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("netcheck controller"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("/api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("/api/v1/submissions", s.requireSession(s.handleListSubmissions))
	mux.HandleFunc("/api/v1/ws/submissions", s.requireSession(s.hub.HandleDeviceWS))
	mux.HandleFunc("/api/v1/ws/feed", s.requireSession(s.hub.HandleFeedWS))
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeMessage(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	items, err := s.submissions.List(r.Context(), limit)
	if err != nil {
		s.log.Error("list submissions failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "failed to list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items}, s.log)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && log != nil {
		log.Warn("failed to write response", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, LoginResponse{Message: msg}, nil)
}
