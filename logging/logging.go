// Package logging provides the structured loggers used by the generator:
// compact JSON in production, pretty-printed JSON in development.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"
)

// PrettyJSONHandler pretty prints records as indented JSON for development
// runs.
type PrettyJSONHandler struct {
	*slog.JSONHandler
	writer io.Writer
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]interface{})
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	attrs["time"] = r.Time.Format(time.RFC3339)
	attrs["level"] = r.Level.String()
	attrs["msg"] = r.Message

	prettyJSON, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}

	_, err = h.writer.Write(append(prettyJSON, '\n'))
	return err
}

// NewPretty returns a logger that pretty prints to w.
func NewPretty(w io.Writer) *slog.Logger {
	return slog.New(&PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(w, nil),
		writer:      w,
	})
}

// New returns the logger for a generation run: pretty JSON when dev is set,
// single-line JSON otherwise.
func New(dev bool) *slog.Logger {
	if dev {
		return NewPretty(os.Stdout)
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
