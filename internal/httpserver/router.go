package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"epicrm/internal/auth"
	"epicrm/internal/httpserver/handlers"
	"epicrm/internal/service"
)

// Services bundles the command services the router exposes.
type Services struct {
	Collaborators *service.CollaboratorService
	Clients       *service.ClientService
	Contracts     *service.ContractService
	Events        *service.EventService
}

// NewRouter wires the command surface. Department allowlists and ownership
// live in the services; the router only requires a bearer token to be
// present so every operation can resolve its caller.
func NewRouter(svcs Services, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Post("/v1/auth/login", handlers.Login(svcs.Collaborators, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.RequireBearer)

		protected.Get("/v1/collaborators", handlers.ListCollaborators(svcs.Collaborators, lg))
		protected.Post("/v1/collaborators", handlers.CreateCollaborator(svcs.Collaborators, lg))
		protected.Patch("/v1/collaborators/{id}", handlers.UpdateCollaborator(svcs.Collaborators, lg))
		protected.Delete("/v1/collaborators/{id}", handlers.DeleteCollaborator(svcs.Collaborators, lg))

		protected.Get("/v1/clients", handlers.ListClients(svcs.Clients, lg))
		protected.Post("/v1/clients", handlers.CreateClient(svcs.Clients, lg))
		protected.Patch("/v1/clients/{id}", handlers.UpdateClient(svcs.Clients, lg))
		protected.Delete("/v1/clients/{id}", handlers.DeleteClient(svcs.Clients, lg))

		protected.Get("/v1/contracts", handlers.ListContracts(svcs.Contracts, lg))
		protected.Post("/v1/contracts", handlers.CreateContract(svcs.Contracts, lg))
		protected.Patch("/v1/contracts/{id}", handlers.UpdateContract(svcs.Contracts, lg))
		protected.Post("/v1/contracts/{id}/sign", handlers.SignContract(svcs.Contracts, lg))
		protected.Post("/v1/contracts/{id}/payments", handlers.RecordPayment(svcs.Contracts, lg))
		protected.Post("/v1/contracts/{id}/reassign", handlers.ReassignContract(svcs.Contracts, lg))

		protected.Get("/v1/events", handlers.ListEvents(svcs.Events, lg))
		protected.Post("/v1/events", handlers.CreateEvent(svcs.Events, lg))
		protected.Patch("/v1/events/{id}", handlers.UpdateEvent(svcs.Events, lg))
		protected.Post("/v1/events/{id}/assign-support", handlers.AssignSupport(svcs.Events, lg))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
