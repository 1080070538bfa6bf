package http

import (
	"github.com/contactd/contactd/internal/service"
)

// Handlers bundles the services the REST API dispatches to.
type Handlers struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Contacts *service.ContactService
}
