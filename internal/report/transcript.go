// Package report writes the exports of a single finished session.
package report

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mahakarkout/AttentionTest/internal/models"
)

// WriteTranscript encodes the session record as YAML.
func WriteTranscript(w io.Writer, rec models.SessionRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return errors.Wrap(err, "encode transcript")
	}
	return errors.Wrap(enc.Close(), "flush transcript")
}

// Exporter writes the transcript and chart of each finished session. Empty
// paths skip that export. File names are stamped with the session start so
// a restarted session does not overwrite the previous one.
type Exporter struct {
	log            *zap.Logger
	transcriptPath string
	reportPath     string
}

// NewExporter returns an exporter for the given paths; either may be empty.
func NewExporter(log *zap.Logger, transcriptPath, reportPath string) *Exporter {
	return &Exporter{log: log, transcriptPath: transcriptPath, reportPath: reportPath}
}

// Export writes every configured file and returns their paths.
func (e *Exporter) Export(rec models.SessionRecord) ([]string, error) {
	var written []string

	if e.transcriptPath != "" {
		path := StampedPath(e.transcriptPath, rec.StartedAt)
		if err := writeFile(path, func(w io.Writer) error { return WriteTranscript(w, rec) }); err != nil {
			return written, errors.Wrapf(err, "write transcript %s", path)
		}
		e.log.Info("Transcript saved", zap.String("path", path), zap.Stringer("session", rec.ID))
		written = append(written, path)
	}

	if e.reportPath != "" {
		path := StampedPath(e.reportPath, rec.StartedAt)
		if err := writeFile(path, func(w io.Writer) error { return RenderLatencyChart(w, rec) }); err != nil {
			return written, errors.Wrapf(err, "write report %s", path)
		}
		e.log.Info("Report saved", zap.String("path", path), zap.Stringer("session", rec.ID))
		written = append(written, path)
	}

	return written, nil
}

// StampedPath inserts the timestamp before the extension:
// results.yaml -> results_20240304-100000.yaml.
func StampedPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + t.Format("20060102-150405") + ext
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return write(f)
}
