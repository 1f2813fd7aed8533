// Package configlog writes resolved configuration to zerolog loggers and consoles.
package configlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	configmgmt "github.com/plasne/config-mgmt"
)

// New builds a logger writing to w at the named level ("debug", "info", ...).
// Console formatting is used when pretty is true; JSON otherwise.
func New(w io.Writer, level string, pretty bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Log emits one info event per entity with its key, value and source.
// Secret values are logged as "(set)" or "(not set)".
func Log(logger zerolog.Logger, reg *configmgmt.Registry) error {
	if reg == nil {
		return configmgmt.ErrNilRegistry
	}
	for _, f := range reg.Fields() {
		logger.Info().
			Str("key", f.Key).
			Str("value", f.Value).
			Str("source", f.Source).
			Bool("required", f.Required).
			Msg("config")
	}
	return nil
}

// Print writes one "KEY = 'value'" line per entity.
func Print(w io.Writer, reg *configmgmt.Registry) error {
	if reg == nil {
		return configmgmt.ErrNilRegistry
	}
	for _, f := range reg.Fields() {
		if _, err := fmt.Fprintf(w, "%s = '%s'\n", f.Key, f.Value); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// Validate runs reg.Validate and logs every missing key at error level.
// The validation error is returned unchanged.
func Validate(logger zerolog.Logger, reg *configmgmt.Registry) error {
	if reg == nil {
		return configmgmt.ErrNilRegistry
	}
	err := reg.Validate()
	if err == nil {
		return nil
	}

	var verr *configmgmt.ValidationError
	if !errors.As(err, &verr) {
		logger.Error().Err(err).Msg("config validation failed")
		return err
	}
	for _, fe := range verr.FieldErrors {
		logger.Error().Str("key", fe.Key).Str("code", fe.Code).Msg(fe.Message)
	}
	return err
}
