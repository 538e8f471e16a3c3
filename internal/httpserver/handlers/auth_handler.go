package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"epicrm/internal/service"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email and password for an identity token.
func Login(svc *service.CollaboratorService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"token": token})
	}
}
