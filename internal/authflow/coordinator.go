// Package authflow drives a login or register submission from the form to its side effects
package authflow

import (
	"context"
	"errors"
	"sync"

	"authform/internal/authapi"
	"authform/internal/form"
	"authform/internal/log"
	"authform/internal/models"
	"authform/internal/navigation"
	"authform/internal/notify"
	"authform/internal/storage"
)

const (
	SuccessMessage = "Authentication successful!"
	errorPrefix    = "Error: "
)

// ErrSubmitInFlight is returned when Submit is called before the previous submission settled
var ErrSubmitInFlight = errors.New("submission already in progress")

// API is the remote authentication service. *authapi.Client implements it
type API interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

type Status int

const (
	StatusInvalid Status = iota
	StatusSucceeded
	StatusFailed
	StatusBusy
	StatusNoContent
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusBusy:
		return "busy"
	case StatusNoContent:
		return "no content"
	default:
		return "invalid"
	}
}

// Outcome reports how a single Submit ended
// Errors is set for StatusInvalid, Credentials for StatusSucceeded,
// Message and Err for StatusFailed. StatusNoContent means the server
// accepted the request without a body: nothing is stored or shown
type Outcome struct {
	Status      Status
	Errors      form.ErrorMap
	Credentials models.Credentials
	Message     string
	Err         error
}

// Coordinator owns the submission state machine for one form
type Coordinator struct {
	state    *form.State
	api      API
	store    storage.Storage
	nav      navigation.Navigator
	notifier notify.Notifier
	logger   log.Logger

	mu    sync.Mutex
	phase Phase
}

type Option func(*Coordinator)

func WithLogger(l log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func New(state *form.State, api API, store storage.Storage, nav navigation.Navigator, notifier notify.Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:    state,
		api:      api,
		store:    store,
		nav:      nav,
		notifier: notifier,
		logger:   log.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) State() *form.State {
	return c.state
}

func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Coordinator) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// Submit validates the current form and, when it is clean, performs exactly one
// authentication request. It blocks until the request settles
func (c *Coordinator) Submit(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.phase != Idle {
		c.mu.Unlock()
		return Outcome{Status: StatusBusy, Err: ErrSubmitInFlight}
	}
	c.phase = Validating
	c.mu.Unlock()

	data := c.state.Data()
	mode := c.state.Mode()

	errs := form.Validate(data, mode)
	c.state.SetErrors(errs)
	if !errs.Valid() {
		c.setPhase(Idle)
		c.logger.DebugContext(ctx, "form rejected", "mode", mode.String(), "fields", len(errs))
		return Outcome{Status: StatusInvalid, Errors: errs}
	}

	c.setPhase(Submitting)
	c.state.SetLoading(true)
	defer func() {
		c.state.SetLoading(false)
		c.setPhase(Idle)
	}()

	resp, err := c.call(ctx, mode, data)
	if (err == nil && resp == nil) || errors.Is(err, authapi.ErrEmptyResponse) {
		c.logger.WarnContext(ctx, "authentication response had no body", "mode", mode.String())
		return Outcome{Status: StatusNoContent}
	}
	if err != nil {
		return c.fail(ctx, mode, err)
	}

	creds := models.Credentials{
		Username: resp.Username,
		Email:    data.Email,
		Token:    resp.Token,
	}
	if err := storage.SaveCredentials(ctx, c.store, creds); err != nil {
		return c.fail(ctx, mode, err)
	}
	c.logger.DebugContext(ctx, "credentials stored", "username", creds.Username, "email", creds.Email)

	c.nav.Navigate(navigation.HomeRoute)
	c.notifier.Success(SuccessMessage)
	return Outcome{Status: StatusSucceeded, Credentials: creds}
}

func (c *Coordinator) call(ctx context.Context, mode form.Mode, data form.FormData) (*models.AuthResponse, error) {
	if mode == form.Login {
		return c.api.Login(ctx, models.LoginRequest{
			Email:    data.Email,
			Password: data.Password,
		})
	}
	return c.api.Register(ctx, models.RegisterRequest{
		Email:    data.Email,
		Password: data.Password,
		Username: data.Username,
		Gender:   string(data.Gender),
		Contact:  data.Contact,
	})
}

func (c *Coordinator) fail(ctx context.Context, mode form.Mode, err error) Outcome {
	msg := authapi.Message(err)
	c.logger.ErrorContext(ctx, "authentication failed", err, "mode", mode.String())
	c.notifier.Error(errorPrefix + msg)
	return Outcome{Status: StatusFailed, Message: msg, Err: err}
}

// SubmitAsync runs Submit on its own goroutine. The channel receives exactly one
// Outcome and is then closed
func (c *Coordinator) SubmitAsync(ctx context.Context) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- c.Submit(ctx)
	}()
	return ch
}

// Current returns the stored credentials, storage.ErrNotFound when signed out
func (c *Coordinator) Current(ctx context.Context) (models.Credentials, error) {
	return storage.LoadCredentials(ctx, c.store)
}

// Logout forgets the stored credentials
func (c *Coordinator) Logout(ctx context.Context) error {
	if err := c.store.Delete(ctx, storage.CredentialsKey); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "signed out")
	return nil
}
