package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"epicrm/internal/auth"
	"epicrm/internal/guard"
	"epicrm/internal/models"
	"epicrm/internal/service"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError renders the error taxonomy. Authentication and authorization
// failures become user-visible messages here and never escape as faults.
func respondError(w http.ResponseWriter, lg *zap.SugaredLogger, err error) {
	var fe *guard.ForbiddenError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		http.Error(w, "token expired", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidToken):
		http.Error(w, "invalid token", http.StatusUnauthorized)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, guard.ErrUnknownSubject):
		// Authenticated but the subject is gone or has no department: a
		// data-integrity problem, reported distinctly from a refusal.
		http.Error(w, "collaborator or department not found", http.StatusUnauthorized)
	case errors.As(err, &fe):
		http.Error(w, fe.Error(), http.StatusForbidden)
	case models.IsValidation(err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// A unique index fired under a concurrent insert despite the
		// application-level checks. Report the conflict, not a fault.
		http.Error(w, "record already exists", http.StatusConflict)
	default:
		lg.Errorw("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
