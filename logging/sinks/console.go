package sinks

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"space-dogfight/sim/logging"
)

// Console renders events as zerolog lines for interactive runs.
type Console struct {
	logger zerolog.Logger
}

func NewConsole(w io.Writer, cfg logging.ConsoleConfig) *Console {
	if w == nil {
		w = io.Discard
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !cfg.UseColor, TimeFormat: "15:04:05.000"}
	return &Console{logger: zerolog.New(out).With().Timestamp().Logger()}
}

func (s *Console) Write(event logging.Event) error {
	line := s.logger.WithLevel(zerologLevel(event.Severity)).
		Str("event", string(event.Type)).
		Uint64("tick", event.Tick).
		Str("actor", event.Actor.ID)
	if event.Category != "" {
		line = line.Str("category", event.Category)
	}
	if len(event.Targets) > 0 {
		ids := make([]string, 0, len(event.Targets))
		for _, ref := range event.Targets {
			ids = append(ids, ref.ID)
		}
		line = line.Strs("targets", ids)
	}
	if event.Payload != nil {
		line = line.Interface("payload", event.Payload)
	}
	for k, v := range event.Extra {
		line = line.Interface(k, v)
	}
	line.Send()
	return nil
}

func (s *Console) Close(context.Context) error {
	return nil
}

func zerologLevel(sev logging.Severity) zerolog.Level {
	switch sev {
	case logging.SeverityDebug:
		return zerolog.DebugLevel
	case logging.SeverityWarn:
		return zerolog.WarnLevel
	case logging.SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
