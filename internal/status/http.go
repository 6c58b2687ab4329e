package status

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type createCheckRequest struct {
	ClientName string `json:"client_name"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
}

func RegisterRoutes(r chi.Router, store Store) {
	r.Post("/status", createCheck(store))
	r.Get("/status", listChecks(store))
}

func createCheck(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
			return
		}
		if strings.TrimSpace(req.ClientName) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{
				Error: "validation_error",
				Details: []fieldError{
					{Field: "client_name", Message: "client_name is required"},
				},
			})
			return
		}

		c := New(req.ClientName)
		if err := store.Insert(r.Context(), c); err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func listChecks(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks, err := store.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		writeJSON(w, http.StatusOK, checks)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
