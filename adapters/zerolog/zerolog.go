// Package zerolog adapts a rs/zerolog logger to the authflow.Logger
// interface.
package zerolog

import (
	"github.com/rs/zerolog"

	authflow "github.com/hakbeom/go-authflow"
)

// Adapter forwards authflow log calls to a zerolog.Logger. The printf-style
// format and args map to the event message and a variadic "args" field.
type Adapter struct {
	logger zerolog.Logger
}

// New wraps a zerolog.Logger.
func New(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

func (a *Adapter) Debug(format string, args ...any) {
	a.emit(a.logger.Debug(), format, args)
}

func (a *Adapter) Info(format string, args ...any) {
	a.emit(a.logger.Info(), format, args)
}

func (a *Adapter) Warn(format string, args ...any) {
	a.emit(a.logger.Warn(), format, args)
}

func (a *Adapter) Error(format string, args ...any) {
	a.emit(a.logger.Error(), format, args)
}

func (a *Adapter) emit(event *zerolog.Event, format string, args []any) {
	if len(args) > 0 {
		event = event.Interface("args", args)
	}
	event.Msg(format)
}

var _ authflow.Logger = (*Adapter)(nil)
