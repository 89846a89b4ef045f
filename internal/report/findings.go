// Package report persists soft-assertion findings and renders the
// screenshot gallery used for manual review.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Finding is one failed soft check.
type Finding struct {
	Test       string    `yaml:"test"`
	Profile    string    `yaml:"profile"`
	Check      string    `yaml:"check"`
	Message    string    `yaml:"message"`
	Screenshot string    `yaml:"screenshot,omitempty"`
	Time       time.Time `yaml:"time"`
}

// Run groups the findings of one suite run.
type Run struct {
	ID       string    `yaml:"id"`
	Started  time.Time `yaml:"started"`
	Findings []Finding `yaml:"findings"`
}

// File is the on-disk findings report. Runs accumulate across suite runs
// like the screenshots next to it.
type File struct {
	Runs []Run `yaml:"runs"`
}

// Recorder appends findings of the current process to a report file.
type Recorder struct {
	path string
	run  Run

	mu sync.Mutex
}

// NewRecorder starts a new run with a fresh id.
func NewRecorder(path string) *Recorder {
	return &Recorder{
		path: path,
		run: Run{
			ID:      uuid.NewString(),
			Started: time.Now().UTC(),
		},
	}
}

// RunID identifies the current run in the report.
func (r *Recorder) RunID() string { return r.run.ID }

// Path returns the report file location.
func (r *Recorder) Path() string { return r.path }

// Record adds findings to the current run and rewrites the file.
func (r *Recorder) Record(findings ...Finding) error {
	if len(findings) == 0 || r.path == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := Read(r.path)
	if err != nil {
		return err
	}
	r.run.Findings = append(r.run.Findings, findings...)

	replaced := false
	for i := range f.Runs {
		if f.Runs[i].ID == r.run.ID {
			f.Runs[i] = r.run
			replaced = true
		}
	}
	if !replaced {
		f.Runs = append(f.Runs, r.run)
	}
	return Write(r.path, f)
}

// Read loads a report file. A missing file is an empty report.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading findings: %w", err)
	}
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing findings %s: %w", path, err)
	}
	return f, nil
}

// Write replaces the report file atomically.
func Write(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding findings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing findings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing findings: %w", err)
	}
	return nil
}

// Latest returns the most recent run, or nil for an empty report.
func (f *File) Latest() *Run {
	if len(f.Runs) == 0 {
		return nil
	}
	return &f.Runs[len(f.Runs)-1]
}
