package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Renderer writes a report in one document format.
type Renderer interface {
	Render(w io.Writer, r Report) error
	ContentType() string
	Ext() string
}

// ForFormat picks the renderer for "pdf" or "xlsx".
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pdf":
		return PDF{}, nil
	case "xlsx", "excel":
		return XLSX{}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// Export renders r and copies the document to w. Render failures, panics
// included, are logged and reported as false; nothing is written to w then.
func Export(w io.Writer, r Report, rd Renderer, log zerolog.Logger) (ok bool) {
	name := r.FileBase + rd.Ext()
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("file", name).Msg("export panicked")
			ok = false
		}
	}()

	var buf bytes.Buffer
	if err := rd.Render(&buf, r); err != nil {
		log.Error().Err(err).Str("file", name).Msg("export failed")
		return false
	}
	n, err := io.Copy(w, &buf)
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("export write failed")
		return false
	}
	log.Info().Str("file", name).Int("lines", len(r.Lines)).Int64("bytes", n).Msg("report exported")
	return true
}
