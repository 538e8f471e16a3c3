package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"epicrm/internal/auth"
	"epicrm/internal/service"
)

func ListEvents(svc *service.EventService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())
		var (
			events any
			err    error
		)
		switch {
		case r.URL.Query().Get("filter") == "unassigned":
			events, err = svc.ListUnassigned(r.Context(), token)
		case r.URL.Query().Get("mine") == "true":
			events, err = svc.ListMine(r.Context(), token)
		default:
			events, err = svc.List(r.Context(), token)
		}
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, events)
	}
}

func CreateEvent(svc *service.EventService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateEventInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		event, err := svc.Create(r.Context(), auth.TokenFromContext(r.Context()), in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, event)
	}
}

func UpdateEvent(svc *service.EventService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var in service.UpdateEventInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		event, err := svc.Update(r.Context(), auth.TokenFromContext(r.Context()), id, in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, event)
	}
}

func AssignSupport(svc *service.EventService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var in struct {
			SupportContactID uint `json:"support_contact_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		event, err := svc.AssignSupport(r.Context(), auth.TokenFromContext(r.Context()), id, in.SupportContactID)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, event)
	}
}
