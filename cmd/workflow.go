package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alec-rabold/zipfix/pkg/zipfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// errFailed is returned when neither direct extraction nor repair succeeded.
var errFailed = errors.New("unable to recover archive")

// workflow holds the raw input for one invocation.
type workflow struct {
	src string
	buf []byte
	log log.FieldLogger
}

func newWorkflow(ctx context.Context, src string) (*workflow, error) {
	if !zipfile.IsRemote(src) {
		if _, err := os.Stat(src); err != nil {
			return nil, fmt.Errorf("file %s does not exist", src)
		}
	}
	var s zipfile.Source
	buf, err := s.Read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return &workflow{src: src, buf: buf, log: log.WithField("archive", src)}, nil
}

// run extracts directly unless repairOnly, then falls back to repairing
// unless extractOnly. It returns nil if any route succeeded.
func (w *workflow) run(out, fixed string, extractOnly, repairOnly bool) error {
	if out == "" {
		out = defaultOutputDir(w.src)
	}
	if fixed == "" {
		fixed = defaultFixedPath(w.src)
	}

	if !repairOnly {
		w.log.Infof("attempting to extract files to %s", out)
		if err := w.extract(w.buf, out); err == nil {
			w.log.Info("extraction successful")
			return nil
		} else if extractOnly {
			return err
		}
		w.log.Warn("direct extraction failed, attempting repair")
	}

	w.log.Infof("attempting to repair into %s", fixed)
	if err := w.repair(fixed); err != nil {
		return err
	}
	// repair-only succeeds on a written archive; there is nothing to extract.
	if repairOnly {
		return nil
	}

	w.log.Info("attempting to extract files from repaired zip")
	if err := w.extractFile(fixed, out); err != nil {
		return err
	}
	w.log.Info("extraction from repaired zip successful")
	return nil
}

func (w *workflow) extract(buf []byte, out string) error {
	report, err := w.extractor().Extract(buf, out)
	return w.extracted(report, err)
}

func (w *workflow) extractFile(src, out string) error {
	report, err := w.extractor().ExtractFile(src, out)
	return w.extracted(report, err)
}

func (w *workflow) extractor() *zipfile.Extractor {
	x := zipfile.NewExtractor(w.log)
	x.Overwrite = viper.GetBool(keyExtractOverwrite)
	return x
}

func (w *workflow) extracted(report *zipfile.ExtractReport, err error) error {
	if err != nil {
		w.log.WithError(err).Error("error opening zip file")
		return fmt.Errorf("%w: %v", errFailed, err)
	}
	w.log.Infof("extracted %d files, %d failed", len(report.Extracted), len(report.Failed))
	return nil
}

func (w *workflow) repair(fixed string) error {
	r, err := newRepairer(w.log)
	if err != nil {
		return err
	}
	report, err := r.RepairFile(w.buf, fixed)
	if errors.Is(err, zipfile.ErrNoSignatures) {
		w.log.Error("no valid zip file headers found, cannot repair")
		return fmt.Errorf("%w: %v", errFailed, err)
	}
	if err != nil {
		return err
	}
	w.log.Infof("repair attempt completed: recovered %d of %d entries, saved to %s",
		report.Recovered, len(report.Entries), fixed)
	return nil
}

func newRepairer(logger log.FieldLogger) (*zipfile.Repairer, error) {
	method, err := parseMethod(viper.GetString(keyRepairMethod))
	if err != nil {
		return nil, err
	}
	r := zipfile.NewRepairer(logger)
	r.Method = method
	if limit := viper.GetInt(keyRepairTailLimit); limit > 0 {
		r.TailLimit = limit
	}
	return r, nil
}

// defaultFixedPath replaces the last extension of src with .fixed.zip.
func defaultFixedPath(src string) string {
	if zipfile.IsRemote(src) {
		return zipfile.Stem(src) + ".fixed.zip"
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".fixed.zip"
}

func defaultOutputDir(src string) string {
	return zipfile.Stem(src) + "_extracted"
}
