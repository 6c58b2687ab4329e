package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func RegisterRoutes(r chi.Router, store Store) {
	r.Get("/tasks", listTasks(store))
	r.Post("/tasks", createTask(store))
	r.Get("/tasks/{id}", getTask(store))
	r.Put("/tasks/{id}", updateTask(store))
	r.Delete("/tasks/{id}", deleteTask(store))
	r.Get("/tasks-stats", taskStats(store))
}

func createTask(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
			return
		}

		var vErrs []fieldError
		if strings.TrimSpace(req.Title) == "" {
			vErrs = append(vErrs, fieldError{Field: "title", Message: "title is required"})
		}
		priority := PriorityMedium
		if req.Priority != "" {
			p, ok := ParsePriority(req.Priority)
			if !ok {
				vErrs = append(vErrs, fieldError{Field: "priority", Message: "must be one of low, medium, high"})
			} else {
				priority = p
			}
		}
		if len(vErrs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: "validation_error", Details: vErrs})
			return
		}

		t := New(req.Title, req.Description, priority)
		if err := store.Insert(r.Context(), t); err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func listTasks(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			f     Filter
			vErrs []fieldError
		)
		if v := r.URL.Query().Get("status"); v != "" {
			st, ok := ParseStatus(v)
			if !ok {
				vErrs = append(vErrs, fieldError{Field: "status", Message: "must be one of pending, in_progress, completed"})
			} else {
				f.Status = &st
			}
		}
		if v := r.URL.Query().Get("priority"); v != "" {
			p, ok := ParsePriority(v)
			if !ok {
				vErrs = append(vErrs, fieldError{Field: "priority", Message: "must be one of low, medium, high"})
			} else {
				f.Priority = &p
			}
		}
		if len(vErrs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: "validation_error", Details: vErrs})
			return
		}

		list, err := store.List(r.Context(), f)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func getTask(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func updateTask(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
			return
		}

		var (
			p     Patch
			vErrs []fieldError
		)
		p.Title = req.Title
		p.Description = req.Description
		if req.Priority != nil {
			pr, ok := ParsePriority(*req.Priority)
			if !ok {
				vErrs = append(vErrs, fieldError{Field: "priority", Message: "must be one of low, medium, high"})
			} else {
				p.Priority = &pr
			}
		}
		if req.Status != nil {
			st, ok := ParseStatus(*req.Status)
			if !ok {
				vErrs = append(vErrs, fieldError{Field: "status", Message: "must be one of pending, in_progress, completed"})
			} else {
				p.Status = &st
			}
		}
		if len(vErrs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: "validation_error", Details: vErrs})
			return
		}

		t, err := store.Update(r.Context(), chi.URLParam(r, "id"), p)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func deleteTask(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
	}
}

func taskStats(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Stats(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errResponse{Error: "task_not_found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
