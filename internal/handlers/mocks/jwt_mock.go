package mocks

import "authform/internal/auth"

type MockJWTManager struct {
	Token       string
	GenerateErr error
	VerifyErr   error
	Claims      *auth.Claims

	// last Generate arguments
	Username string
	Email    string
}

func (m *MockJWTManager) Generate(username, email string) (string, error) {
	m.Username = username
	m.Email = email
	return m.Token, m.GenerateErr
}

func (m *MockJWTManager) Verify(token string) (*auth.Claims, error) {
	return m.Claims, m.VerifyErr
}
