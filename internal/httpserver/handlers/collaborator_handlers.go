package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"epicrm/internal/auth"
	"epicrm/internal/service"
)

func urlID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	return uint(id), err
}

func ListCollaborators(svc *service.CollaboratorService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cols, err := svc.List(r.Context(), auth.TokenFromContext(r.Context()))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, cols)
	}
}

func CreateCollaborator(svc *service.CollaboratorService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateCollaboratorInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		col, err := svc.Create(r.Context(), auth.TokenFromContext(r.Context()), in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, col)
	}
}

func UpdateCollaborator(svc *service.CollaboratorService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var in service.UpdateCollaboratorInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		col, err := svc.Update(r.Context(), auth.TokenFromContext(r.Context()), id, in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, col)
	}
}

func DeleteCollaborator(svc *service.CollaboratorService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := svc.Delete(r.Context(), auth.TokenFromContext(r.Context()), id); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"deleted": true})
	}
}
