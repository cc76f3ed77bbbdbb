package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"authform/internal/authapi"
	"authform/internal/authflow"
	"authform/internal/config"
	"authform/internal/form"
	"authform/internal/log"
	"authform/internal/navigation"
	"authform/internal/notify"
	"authform/internal/storage"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	authRoute = "/auth"
)

const usage = `usage: authform <command> [flags]

commands:
  login      sign in with --email and --password
  register   create an account (adds --username, --gender, --contact)
  whoami     show the signed-in user and check the token with the API
  logout     forget the stored credentials
`

// readPassword asks for the password when --password was not given; swapped in tests
var readPassword = (*app).promptPassword

type formFlags struct {
	email    string
	password string
	username string
	gender   string
	contact  string
}

func (f *formFlags) bind(fs *pflag.FlagSet, mode form.Mode) {
	fs.StringVar(&f.email, "email", "", "account email")
	fs.StringVar(&f.password, "password", "", "account password (prompted when omitted on a terminal)")
	if mode == form.Register {
		fs.StringVar(&f.username, "username", "", "display name")
		fs.StringVar(&f.gender, "gender", string(form.GenderMale), "male, female or other")
		fs.StringVar(&f.contact, "contact", "", "contact number")
	}
}

func (f *formFlags) apply(s *form.State) error {
	values := []struct {
		field form.Field
		value string
	}{
		{form.FieldEmail, f.email},
		{form.FieldPassword, f.password},
		{form.FieldUsername, f.username},
		{form.FieldContact, f.contact},
	}
	for _, v := range values {
		if err := s.Set(v.field, v.value); err != nil {
			return err
		}
	}
	if f.gender != "" {
		return s.Set(form.FieldGender, f.gender)
	}
	return nil
}

type app struct {
	cfg     *config.Client
	stdin   io.Reader
	stdout  io.Writer
	logger  log.Logger
	store   storage.Storage
	api     *authapi.Client
	history *navigation.History
	coord   *authflow.Coordinator
	closers []func() error
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	cmd := args[0]
	fs := pflag.NewFlagSet("authform "+cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := config.BindClient(fs)

	var ff formFlags
	switch cmd {
	case "login":
		ff.bind(fs, form.Login)
	case "register":
		ff.bind(fs, form.Register)
	case "whoami", "logout":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsage
	}

	log.InitWriter(stderr, log.ParseLevel(cfg.LogLevel), cfg.Environment)
	logger := log.GetLogger()
	logger.Debug("configuration loaded", "config", cfg.Fields())

	a, err := newApp(ctx, cfg, stdin, stdout, logger)
	if err != nil {
		logger.Error("failed to start", err)
		fmt.Fprintf(stderr, "authform: %v\n", err)
		return exitFailure
	}
	defer a.close()

	switch cmd {
	case "login":
		return a.submit(ctx, form.Login, &ff)
	case "register":
		return a.submit(ctx, form.Register, &ff)
	case "whoami":
		return a.whoami(ctx)
	default:
		return a.logout(ctx)
	}
}

func newApp(ctx context.Context, cfg *config.Client, stdin io.Reader, stdout io.Writer, logger log.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		stdin:   stdin,
		stdout:  stdout,
		logger:  logger,
		api:     authapi.NewClient(cfg.APIBase, cfg.Timeout),
		history: navigation.NewHistory(authRoute),
	}

	store, closer, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	a.store = store
	a.closers = append(a.closers, closer.Close)

	var notifier notify.Notifier = notify.NewConsole(stdout, cfg.NoColor)
	if cfg.NATSURL != "" {
		n, nc, err := notify.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			// notifications still reach the terminal
			logger.Warn("nats unavailable", "url", cfg.NATSURL, "error", err)
		} else {
			notifier = notify.Multi{notifier, n}
			a.closers = append(a.closers, nc.Drain)
		}
	}

	a.history.OnNavigate(a.showHome)
	a.coord = authflow.New(form.NewState(), a.api, a.store, a.history, notifier, authflow.WithLogger(logger))
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

func (a *app) submit(ctx context.Context, mode form.Mode, ff *formFlags) int {
	state := a.coord.State()
	state.SetMode(mode)
	if err := ff.apply(state); err != nil {
		fmt.Fprintf(a.stdout, "%v\n", err)
		return exitUsage
	}
	if ff.password == "" {
		if pw, ok := readPassword(a); ok {
			if err := state.Set(form.FieldPassword, pw); err != nil {
				fmt.Fprintf(a.stdout, "%v\n", err)
				return exitUsage
			}
		}
	}

	view := state.View()
	fmt.Fprintf(a.stdout, "%s\n%s\n", view.Title, view.Subtitle)

	out := a.coord.Submit(ctx)
	switch out.Status {
	case authflow.StatusInvalid:
		printErrors(a.stdout, state.View())
		return exitUsage
	case authflow.StatusSucceeded:
		return exitOK
	default:
		return exitFailure
	}
}

func (a *app) promptPassword() (string, bool) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", false
	}
	fmt.Fprint(a.stdout, "Password: ")
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.stdout)
	if err != nil {
		a.logger.Warn("failed to read password", "error", err)
		return "", false
	}
	return string(pw), true
}

func printErrors(w io.Writer, v form.View) {
	for _, f := range v.Fields {
		if msg, ok := v.Errors[f]; ok {
			fmt.Fprintf(w, "  %s: %s\n", f, msg)
		}
	}
}

// showHome renders the home route after a successful submission
func (a *app) showHome(route string) {
	creds, err := a.coord.Current(context.Background())
	if err != nil {
		fmt.Fprintf(a.stdout, "[%s]\n", route)
		return
	}
	fmt.Fprintf(a.stdout, "[%s] Signed in as %s <%s>\n", route, creds.Username, creds.Email)
}

func (a *app) whoami(ctx context.Context) int {
	creds, err := a.coord.Current(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(a.stdout, "Not signed in")
		return exitFailure
	}
	if err != nil {
		fmt.Fprintf(a.stdout, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(a.stdout, "%s <%s>\n", creds.Username, creds.Email)

	me, err := a.api.Me(ctx, creds.Token)
	if err != nil {
		fmt.Fprintf(a.stdout, "Token rejected by %s: %s\n", a.api.BaseURL(), authapi.Message(err))
		return exitFailure
	}
	if !strings.EqualFold(me.Email, creds.Email) {
		fmt.Fprintf(a.stdout, "Token belongs to %s\n", me.Email)
		return exitFailure
	}
	fmt.Fprintln(a.stdout, "Token accepted")
	return exitOK
}

func (a *app) logout(ctx context.Context) int {
	if err := a.coord.Logout(ctx); err != nil {
		fmt.Fprintf(a.stdout, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(a.stdout, "Signed out")
	return exitOK
}
