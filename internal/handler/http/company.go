package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
	dispatcher     event.Dispatcher
}

func NewCompanyHandler(companyService company.CompanyService, dispatcher event.Dispatcher) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
		dispatcher:     dispatcher,
	}
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	companies, err := c.companyService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, companies)
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req company.CreateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, events, err := c.companyService.Create(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to create company", "error", err)
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), c.dispatcher, events)

	response.Created(w, "Company created successfully", created)
}

// Get implements CompanyHandler.
func (c *CompanyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	found, err := c.companyService.Get(r.Context(), actor, scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req company.UpdateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, events, err := c.companyService.Update(r.Context(), actor, scope, req)
	if err != nil {
		slog.Error("Company update service error", "error", err)
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), c.dispatcher, events)

	response.SuccessWithMessage(w, "Company updated successfully", updated)
}
