package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/danial-baraty/express-todo-api/internal/server/middleware"
	"github.com/danial-baraty/express-todo-api/internal/server/users"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type loginResponse struct {
	UserID string `json:"userId"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := s.users.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrValidation):
			respondMessage(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, users.ErrDuplicateEmail):
			respondMessage(w, http.StatusBadRequest, "User already exists.")
		default:
			s.logger.Error("signup failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	s.setTokenCookie(w, result.Token)
	respondJSON(w, http.StatusCreated, signupResponse{
		Token:  result.Token,
		UserID: result.User.ID,
		Email:  result.User.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrValidation):
			respondMessage(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, users.ErrInvalidCredentials):
			respondMessage(w, http.StatusUnauthorized, "Invalid email or password.")
		default:
			s.logger.Error("login failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	s.setTokenCookie(w, result.Token)
	respondJSON(w, http.StatusOK, loginResponse{UserID: result.User.ID})
}

func (s *Server) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokenTTL / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
