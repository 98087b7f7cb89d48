package flow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"manga_tracker/forms"
	"manga_tracker/lang"
	"manga_tracker/library"
)

// API is the part of library.Client the flows use.
type API interface {
	ListSeries(ctx context.Context, rawQuery string) ([]library.Series, error)
	Login(ctx context.Context, password string) error
	LookupExternal(ctx context.Context, rawQuery string) (library.Series, error)
	CreateSeries(ctx context.Context, payload any) error
	GetSettings(ctx context.Context) (library.Settings, error)
	UpdateSettings(ctx context.Context, payload any) error
}

// Result is what a flow tells the user when it finishes.
type Result struct {
	OK      bool
	Message string
	// Fields holds inline messages when local validation failed.
	Fields forms.FieldErrors
	// Unauthorized is set when the backend wants a login first.
	Unauthorized bool
}

func success(msg string) Result { return Result{OK: true, Message: msg} }

// Invalid reports local validation errors without touching the network.
func Invalid(err error) Result {
	r := Result{Message: lang.Active().Settings.FixFields}
	var fe forms.FieldErrors
	if errors.As(err, &fe) {
		r.Fields = fe
	}
	return r
}

// Busy is a per-flow in-flight flag. Flows have one each, so a slow save
// never disables another flow's submit.
type Busy struct {
	active bool
}

// Start marks the flow busy; it returns false if a request is already running.
func (b *Busy) Start() bool {
	if b.active {
		return false
	}
	b.active = true
	return true
}

func (b *Busy) Done() { b.active = false }

func (b Busy) Active() bool { return b.active }

// Runner executes the flows against the backend. Its methods block and are
// meant to run inside tea.Cmd closures or from the CLI.
type Runner struct {
	api API
	log *zap.Logger
}

func New(api API, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{api: api, log: logger.Named("flow")}
}

// serverMessage is the backend's own error text, if it sent one.
func serverMessage(err error) string {
	var apiErr *library.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func isTransport(err error) bool {
	var te *library.TransportError
	return errors.As(err, &te)
}

func transportCause(err error) error {
	var te *library.TransportError
	if errors.As(err, &te) {
		return te.Err
	}
	return err
}

// failure turns an error into a message: transport problems use onTransport,
// application errors the server text, anything else the fallback.
func failure(err error, fallback string, onTransport func(error) string) Result {
	r := Result{Unauthorized: errors.Is(err, library.ErrUnauthorized)}
	switch {
	case isTransport(err):
		r.Message = onTransport(transportCause(err))
	case serverMessage(err) != "":
		r.Message = serverMessage(err)
	default:
		r.Message = fallback
	}
	return r
}
