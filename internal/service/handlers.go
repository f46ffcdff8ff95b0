package service

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/petpals/pkg/api"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = []string{
	api.AuthServiceRegisterProcedure,
	api.AuthServiceLoginProcedure,
}

// Handlers bundles the RPC service implementations.
type Handlers struct {
	Auth     *AuthService
	Todo     *TodoService
	Pet      *PetService
	Activity *ActivityService
	Live     *LiveService
}

// Mount registers every service on mux.
func (h Handlers) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(api.NewAuthServiceHandler(h.Auth, opts...))
	mux.Handle(api.NewTodoServiceHandler(h.Todo, opts...))
	mux.Handle(api.NewPetServiceHandler(h.Pet, opts...))
	mux.Handle(api.NewActivityServiceHandler(h.Activity, opts...))
	mux.Handle(api.NewLiveServiceHandler(h.Live, opts...))
}
