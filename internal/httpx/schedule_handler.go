package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/schedule"
)

type ScheduleHandler struct {
	Repo *schedule.Repo
}

func (h *ScheduleHandler) Register(r chi.Router, authed func(http.Handler) http.Handler, admin func(http.Handler) http.Handler) {
	r.Route("/api/schedules", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/masses", h.masses)
		r.Get("/chapels", h.chapels)
		r.Get("/members/{role}", h.listMembers)

		r.Group(func(r chi.Router) {
			r.Use(authed, admin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
			r.Post("/members", h.createMember)
			r.Put("/members/{id}", h.renameMember)
			r.Delete("/members/{id}", h.deleteMember)
		})
	})
}

type scheduleReq struct {
	Mass     string   `json:"mass"`
	Date     string   `json:"date"`
	Month    int      `json:"month"`
	Year     int      `json:"year"`
	Acolytes []string `json:"acolytes"`
	Servers  []string `json:"servers"`
}

func (h *ScheduleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req scheduleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	s, err := schedule.NewSchedule(req.Mass, req.Date, req.Month, req.Year, req.Acolytes, req.Servers)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := h.Repo.Create(ctx, s)
	if errors.Is(err, schedule.ErrDuplicateSchedule) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "schedule created successfully", "id": id})
}

func (h *ScheduleHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Repo.List(ctx, queryInt(r, "month"), queryInt(r, "year"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ScheduleHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Repo.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, schedule.ErrScheduleNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "schedule not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ScheduleHandler) update(w http.ResponseWriter, r *http.Request) {
	var req scheduleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	s, err := schedule.NewSchedule(req.Mass, req.Date, req.Month, req.Year, req.Acolytes, req.Servers)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.Update(ctx, chi.URLParam(r, "id"), s); err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "schedule not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "schedule updated successfully"})
}

func (h *ScheduleHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "schedule not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "schedule deleted"})
}

func (h *ScheduleHandler) masses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schedule.Masses)
}

func (h *ScheduleHandler) chapels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schedule.Chapels())
}

func (h *ScheduleHandler) listMembers(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	if role != schedule.RoleServer && role != schedule.RoleAcolyte {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown role " + role})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Repo.ListMembers(ctx, role)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ScheduleHandler) createMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := h.Repo.CreateMember(ctx, req.Name, req.Role)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "member created", "id": id})
}

func (h *ScheduleHandler) renameMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.RenameMember(ctx, chi.URLParam(r, "id"), req.Name); err != nil {
		if errors.Is(err, schedule.ErrMemberNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "member not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member updated"})
}

func (h *ScheduleHandler) deleteMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.DeleteMember(ctx, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, schedule.ErrMemberNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "member not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member deleted"})
}
