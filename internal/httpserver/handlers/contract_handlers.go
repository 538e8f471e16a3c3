package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"epicrm/internal/auth"
	"epicrm/internal/service"
)

func ListContracts(svc *service.ContractService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromContext(r.Context())
		var (
			contracts any
			err       error
		)
		switch r.URL.Query().Get("filter") {
		case "unsigned":
			contracts, err = svc.ListUnsigned(r.Context(), token)
		case "unpaid":
			contracts, err = svc.ListUnpaid(r.Context(), token)
		default:
			contracts, err = svc.List(r.Context(), token)
		}
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, contracts)
	}
}

func CreateContract(svc *service.ContractService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateContractInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		contract, err := svc.Create(r.Context(), auth.TokenFromContext(r.Context()), in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, contract)
	}
}

func UpdateContract(svc *service.ContractService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var in service.UpdateContractInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		contract, err := svc.Update(r.Context(), auth.TokenFromContext(r.Context()), id, in)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, contract)
	}
}

func SignContract(svc *service.ContractService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		contract, err := svc.Sign(r.Context(), auth.TokenFromContext(r.Context()), id)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, contract)
	}
}

func RecordPayment(svc *service.ContractService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var in struct {
			Amount float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		contract, err := svc.RecordPayment(r.Context(), auth.TokenFromContext(r.Context()), id, in.Amount)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, contract)
	}
}

func ReassignContract(svc *service.ContractService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var in struct {
			SalesContactID uint `json:"sales_contact_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		contract, err := svc.ReassignSales(r.Context(), auth.TokenFromContext(r.Context()), id, in.SalesContactID)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, contract)
	}
}
