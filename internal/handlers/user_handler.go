package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"authform/internal/auth"
	"authform/internal/form"
	"authform/internal/k8s"
	"authform/internal/log"
	"authform/internal/metrics"
	"authform/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles user registration, login and the current-account lookup
type UserHandler struct {
	JWTManager auth.JWT
	Client     K8sClient
	Namespace  string
	Metrics    *metrics.AuthMetrics
	Logger     log.Logger

	// PasswordCost is the bcrypt cost for new accounts
	PasswordCost int
}

// NewUserHandler creates a new UserHandler storing accounts in namespace
func NewUserHandler(client K8sClient, jwtManager auth.JWT, namespace string, m *metrics.AuthMetrics, logger log.Logger) *UserHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &UserHandler{
		JWTManager:   jwtManager,
		Client:       client,
		Namespace:    namespace,
		Metrics:      m,
		Logger:       logger,
		PasswordCost: bcrypt.DefaultCost,
	}
}

// Register validates the form, hashes the password and stores the account in a secret
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() { h.Metrics.ObserveAttempt(metrics.OpRegister, outcome, time.Since(start)) }()

	if r.Method != http.MethodPost {
		outcome = metrics.OutcomeInvalid
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		outcome = metrics.OutcomeInvalid
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	gender := form.GenderMale
	if strings.TrimSpace(req.Gender) != "" {
		g, err := form.ParseGender(req.Gender)
		if err != nil {
			outcome = metrics.OutcomeInvalid
			writeValidationError(w, form.ErrorMap{form.FieldGender: {
				Field:   form.FieldGender,
				Kind:    form.InvalidFormat,
				Message: "Please select a valid gender",
			}})
			return
		}
		gender = g
	}

	data := form.FormData{
		Email:    normalizeEmail(req.Email),
		Password: req.Password,
		Username: strings.TrimSpace(req.Username),
		Gender:   gender,
		Contact:  strings.TrimSpace(req.Contact),
	}
	if errs := form.Validate(data, form.Register); !errs.Valid() {
		outcome = metrics.OutcomeInvalid
		writeValidationError(w, errs)
		return
	}
	if data.Username == "" {
		data.Username = defaultUsername(data.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), h.cost())
	if err != nil {
		outcome = metrics.OutcomeError
		h.Logger.ErrorContext(r.Context(), "failed to hash password", err)
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	acct := account{
		ID:           uuid.NewString(),
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: string(hash),
		Gender:       string(data.Gender),
		Contact:      data.Contact,
		CreatedAt:    time.Now(),
	}

	err = h.Client.CreateSecret(r.Context(), h.Namespace, accountSecretName(acct.Email), acct.data())
	if err != nil {
		if errors.Is(err, k8s.ErrSecretExists) {
			outcome = metrics.OutcomeConflict
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		outcome = metrics.OutcomeError
		h.Logger.ErrorContext(r.Context(), "failed to store account", err, "email", acct.Email)
		writeError(w, http.StatusInternalServerError, "Failed to store credentials")
		return
	}

	token, err := h.JWTManager.Generate(acct.Username, acct.Email)
	if err != nil {
		outcome = metrics.OutcomeError
		h.Logger.ErrorContext(r.Context(), "failed to generate token", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	h.Logger.InfoContext(r.Context(), "user registered", "account_id", acct.ID, "username", acct.Username)
	writeJSON(w, http.StatusCreated, models.AuthResponse{
		Username: acct.Username,
		Token:    token,
		Message:  "User registered successfully",
	})
}

// Login validates user credentials and returns a JWT token
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() { h.Metrics.ObserveAttempt(metrics.OpLogin, outcome, time.Since(start)) }()

	if r.Method != http.MethodPost {
		outcome = metrics.OutcomeInvalid
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		outcome = metrics.OutcomeInvalid
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	data := form.FormData{Email: normalizeEmail(req.Email), Password: req.Password}
	if errs := form.Validate(data, form.Login); !errs.Valid() {
		outcome = metrics.OutcomeInvalid
		writeValidationError(w, errs)
		return
	}

	secretData, err := h.Client.GetSecret(r.Context(), h.Namespace, accountSecretName(data.Email))
	if err != nil {
		if errors.Is(err, k8s.ErrSecretNotFound) {
			outcome = metrics.OutcomeRejected
			writeError(w, http.StatusUnauthorized, "User does not exist")
			return
		}
		outcome = metrics.OutcomeError
		h.Logger.ErrorContext(r.Context(), "failed to load account", err, "email", data.Email)
		writeError(w, http.StatusInternalServerError, "Failed to load credentials")
		return
	}

	acct := accountFromData(secretData)
	if acct.PasswordHash == "" {
		outcome = metrics.OutcomeError
		writeError(w, http.StatusInternalServerError, "Credentials not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(data.Password)); err != nil {
		outcome = metrics.OutcomeRejected
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.JWTManager.Generate(acct.Username, acct.Email)
	if err != nil {
		outcome = metrics.OutcomeError
		h.Logger.ErrorContext(r.Context(), "failed to generate token", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := writeJSON(w, http.StatusOK, models.AuthResponse{
		Username: acct.Username,
		Token:    token,
		Message:  "Login successful",
	}); err != nil {
		h.Logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

// Me returns the account behind the request's token
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r.Context())
	if !ok || email == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	secretData, err := h.Client.GetSecret(r.Context(), h.Namespace, accountSecretName(email))
	if err != nil {
		if errors.Is(err, k8s.ErrSecretNotFound) {
			writeError(w, http.StatusNotFound, "User does not exist")
			return
		}
		h.Logger.ErrorContext(r.Context(), "failed to load account", err, "email", email)
		writeError(w, http.StatusInternalServerError, "Failed to load credentials")
		return
	}

	acct := accountFromData(secretData)
	writeJSON(w, http.StatusOK, models.MeResponse{Username: acct.Username, Email: acct.Email})
}

func (h *UserHandler) cost() int {
	if h.PasswordCost == 0 {
		return bcrypt.DefaultCost
	}
	return h.PasswordCost
}
