package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
)

type UserHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService user.UserService
	dispatcher  event.Dispatcher
}

func NewUserHandler(userService user.UserService, dispatcher event.Dispatcher) UserHandler {
	return &UserHandlerImpl{
		userService: userService,
		dispatcher:  dispatcher,
	}
}

// Create implements UserHandler.
func (h *UserHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, events, err := h.userService.Create(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.Created(w, "User created successfully", created)
}

// List implements UserHandler.
func (h *UserHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	users, err := h.userService.List(r.Context(), actor, scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, users)
}
