package fsm

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Kind classifies a diagnostic raised by a fallible operation (spec §7).
type Kind int

const (
	KindInvalidArgument Kind = iota
	KindNotSupportedByVariant
	KindUnreducedMachine
	KindNotApplicable
	KindExternalUnavailable
	KindIOFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotSupportedByVariant:
		return "NotSupportedByVariant"
	case KindUnreducedMachine:
		return "UnreducedMachine"
	case KindNotApplicable:
		return "NotApplicable"
	case KindExternalUnavailable:
		return "ExternalUnavailable"
	case KindIOFailure:
		return "IOFailure"
	default:
		return "Unknown"
	}
}

// Handler receives one diagnostic message per failed public call. It
// replaces the module-level `errorMsgHandler` function pointer from the
// original C++ (DESIGN NOTES §9) with a settable, per-FSM callback.
type Handler func(kind Kind, msg string)

var defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()

// DefaultHandler logs the diagnostic to stderr through zerolog, mirroring
// the original `displayErrorMsgOnCerr` default.
func DefaultHandler(kind Kind, msg string) {
	defaultLogger.Warn().Str("kind", kind.String()).Msg(msg)
}

type diagnostics struct {
	mu      sync.RWMutex
	handler Handler
}

func newDiagnostics() *diagnostics {
	return &diagnostics{handler: DefaultHandler}
}

func (d *diagnostics) notice(kind Kind, msg string) {
	d.mu.RLock()
	h := d.handler
	d.mu.RUnlock()
	if h != nil {
		h(kind, msg)
	}
}

func (d *diagnostics) set(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h == nil {
		h = DefaultHandler
	}
	d.handler = h
}

// SetDiagnosticsHandler installs a custom diagnostics callback on f,
// replacing the default stderr logger. Passing nil restores the default.
func (f *FSM) SetDiagnosticsHandler(h Handler) {
	f.diag.set(h)
}

func (f *FSM) notice(kind Kind, msg string) {
	f.diag.notice(kind, msg)
}

// Notice raises a diagnostic through f's configured handler. Exported
// so packages built on top of fsm (checking, fcc, teacher) can report
// through the same per-FSM handler instead of introducing their own.
// On a nil f the diagnostic goes to DefaultHandler.
func (f *FSM) Notice(kind Kind, msg string) {
	if f == nil {
		DefaultHandler(kind, msg)
		return
	}
	f.notice(kind, msg)
}
