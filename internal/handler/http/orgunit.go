package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/orgunit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OrgUnitHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type orgUnitHandlerImpl struct {
	orgUnitService orgunit.OrgUnitService
	dispatcher     event.Dispatcher
}

func NewOrgUnitHandler(orgUnitService orgunit.OrgUnitService, dispatcher event.Dispatcher) OrgUnitHandler {
	return &orgUnitHandlerImpl{
		orgUnitService: orgUnitService,
		dispatcher:     dispatcher,
	}
}

func (h *orgUnitHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	units, err := h.orgUnitService.List(r.Context(), actor, scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, units)
}

func (h *orgUnitHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	unit, err := h.orgUnitService.Get(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, unit)
}

func (h *orgUnitHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req orgunit.CreateOrgUnitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	unit, events, err := h.orgUnitService.Create(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.Created(w, "Org unit created successfully", unit)
}

func (h *orgUnitHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req orgunit.UpdateOrgUnitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	unit, events, err := h.orgUnitService.Update(r.Context(), actor, scope, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.SuccessWithMessage(w, "Org unit updated successfully", unit)
}

func (h *orgUnitHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	events, err := h.orgUnitService.Delete(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.SuccessWithMessage(w, "Org unit deleted successfully", nil)
}
