package models

// LoginRequest is the body of POST /user/login
type LoginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

// RegisterRequest is the body of POST /user/register
type RegisterRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
	Username string `json:"Username"`
	Gender   string `json:"Gender"`
	Contact  string `json:"Contact"`
}

// AuthResponse is the success body of both login and register
type AuthResponse struct {
	Username string `json:"Username"`
	Token    string `json:"token"`
	Message  string `json:"message,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MeResponse is returned by GET /user/me
type MeResponse struct {
	Username string `json:"Username"`
	Email    string `json:"Email"`
}

// Credentials is the record the client persists after a successful authentication
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}
