package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"epicrm/internal/auth"
	"epicrm/internal/service"
)

func ListClients(svc *service.ClientService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())
		if email := r.URL.Query().Get("email"); email != "" {
			client, err := svc.FindByEmail(r.Context(), token, email)
			if err != nil {
				respondError(w, lg, err)
				return
			}
			respondJSON(w, client)
			return
		}
		if r.URL.Query().Get("mine") == "true" {
			clients, err := svc.ListMine(r.Context(), token)
			if err != nil {
				respondError(w, lg, err)
				return
			}
			respondJSON(w, clients)
			return
		}
		clients, err := svc.List(r.Context(), token)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, clients)
	}
}

func CreateClient(svc *service.ClientService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateClientInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		client, err := svc.Create(r.Context(), auth.TokenFromContext(r.Context()), in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, client)
	}
}

func UpdateClient(svc *service.ClientService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var in service.UpdateClientInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		client, err := svc.Update(r.Context(), auth.TokenFromContext(r.Context()), id, in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, client)
	}
}

func DeleteClient(svc *service.ClientService, lg *zap.SugaredLogger) http.HandlerFunc {
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
