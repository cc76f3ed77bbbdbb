package auth

// JWT issues and checks account tokens. *JWTManager implements it
type JWT interface {
	Generate(username, email string) (string, error)
	Verify(token string) (*Claims, error)
}
