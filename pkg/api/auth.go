package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"netcheck/pkg/auth"
	"netcheck/pkg/model"
	"netcheck/pkg/store"
)

const msgInvalidCredentials = "invalid credentials"

type claimsKey struct{}

// ClaimsFrom returns the session claims attached by requireSession.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

func decodeLogin(r *http.Request) (LoginRequest, bool) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	return req, req.Username != "" && req.Password != ""
}

// handleRegister only allows the first user to be created (admin).
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, ok := decodeLogin(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid password")
		return
	}
	user, err := s.users.CreateFirst(r.Context(), model.User{Username: req.Username, PasswordHash: string(hash)})
	if errors.Is(err, store.ErrRegistrationClosed) {
		writeMessage(w, http.StatusForbidden, "registration closed")
		return
	}
	if err != nil {
		s.log.Error("create user failed", zap.String("user", req.Username), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	s.log.Info("admin registered", zap.String("user", user.Username))
	s.issue(w, user, "Registration successful!")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, ok := decodeLogin(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := s.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("user lookup failed", zap.Error(err))
		}
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if !user.CanLogin() || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.log.Info("login rejected", zap.String("user", req.Username))
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	s.log.Info("login accepted", zap.String("user", user.Username))
	s.issue(w, user, "Login successful!")
}

func (s *Server) issue(w http.ResponseWriter, user model.User, msg string) {
	token, err := s.signer.Generate(user.ID, user.Username)
	if err != nil {
		s.log.Error("token signing failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "failed to issue session")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Message: msg}, s.log)
}

func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := s.signer.Parse(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// Bootstrap creates username with password unless it already exists.
func Bootstrap(ctx context.Context, users store.UserStore, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	u := model.User{Username: username, PasswordHash: string(hash)}
	if n == 0 {
		_, err = users.CreateFirst(ctx, u)
		return err
	}
	_, err = users.Create(ctx, u)
	if errors.Is(err, store.ErrUserExists) {
		return nil
	}
	return err
}
