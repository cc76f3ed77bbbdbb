package handlers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// accountNamespace seeds the name-based UUIDs that key account secrets
var accountNamespace = uuid.MustParse("6f1c1a52-3b57-4b0e-9a43-2f5d3c1e8b7a")

const (
	keyID       = "id"
	keyUsername = "username"
	keyEmail    = "email"
	keyPassword = "password"
	keyGender   = "gender"
	keyContact  = "contact"
	keyCreated  = "created_at"
)

// account is one registered user, stored as a secret in the accounts namespace
type account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Gender       string
	Contact      string
	CreatedAt    time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// accountSecretName maps an email to a stable, DNS-safe secret name
func accountSecretName(email string) string {
	return "user-" + uuid.NewSHA1(accountNamespace, []byte(normalizeEmail(email))).String()
}

// defaultUsername is the local part of the email, used when register leaves the username blank
func defaultUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (a account) data() map[string]string {
	return map[string]string{
		keyID:       a.ID,
		keyUsername: a.Username,
		keyEmail:    a.Email,
		keyPassword: a.PasswordHash,
		keyGender:   a.Gender,
		keyContact:  a.Contact,
		keyCreated:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func accountFromData(data map[string]string) account {
	created, _ := time.Parse(time.RFC3339, data[keyCreated])
	return account{
		ID:           data[keyID],
		Username:     data[keyUsername],
		Email:        data[keyEmail],
		PasswordHash: data[keyPassword],
		Gender:       data[keyGender],
		Contact:      data[keyContact],
		CreatedAt:    created,
	}
}
