package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/users"
)

type UsersHandler struct {
	Service *users.Service
}

func (h *UsersHandler) Register(r chi.Router, authed func(http.Handler) http.Handler, admin func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.Post("/forgotpassword", h.forgotPassword)
		r.Post("/resetpassword", h.resetPassword)
		r.With(authed).Get("/checkToken", h.checkToken)
		r.With(authed).Post("/changePassword", h.changePassword)
		r.With(authed, admin).Get("/get", h.list)
		r.With(authed, admin).Patch("/update", h.updateStatus)
	})
}

func (h *UsersHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Service.SignUp(ctx, req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email already registered"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registered successfully"})
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, _, err := h.Service.LogIn(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrBadCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "wrong email or password"})
	case errors.Is(err, users.ErrNotApproved):
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "wait for admin approval"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// forgotPassword always answers 200 so the endpoint cannot be used to probe
// registered emails.
func (h *UsersHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.ForgotPassword(ctx, req.Email); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "try again later"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password recovery email sent"})
}

func (h *UsersHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, users.ErrBadResetToken) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid or expired token"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

func (h *UsersHandler) checkToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "true"})
}

func (h *UsersHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	claims, _ := ClaimsFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.ChangePassword(ctx, claims.Email, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, users.ErrBadCredentials) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "current password is wrong"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Service.List(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *UsersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Service.SetStatus(ctx, req.ID, req.Status); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user updated successfully"})
}
