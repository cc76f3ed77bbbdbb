package handlers

import "net/http"

// UserHandlerInterface defines the behavior the router expects from any user handler implementation (real or mock)
type UserHandlerInterface interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}
