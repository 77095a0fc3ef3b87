// Package project persists the manifest of a report run: a run id, the
// inputs read and every artifact written into the output directory.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/salescope/internal/utils"
	"github.com/google/uuid"
)

const (
	manifestFileName = "manifest.json"
)

// Run is the manifest of one command execution.
type Run struct {
	ID         string      `json:"id"`
	Command    string      `json:"command"`
	Inputs     []Input     `json:"inputs"`
	Artifacts  []*Artifact `json:"artifacts"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`

	// Not serialized: output directory holding manifest.json
	rootDir string `json:"-"`
}

// NewRun starts an in-memory manifest. Call Save() to persist.
func NewRun(command, rootDir string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Command:   command,
		StartedAt: time.Now(),
		rootDir:   rootDir,
	}
}

// LoadRun reads manifest.json from dir.
func LoadRun(dir string) (*Run, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no run manifest at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	r.rootDir = dir
	return &r, nil
}

// RootDir returns the output directory of the run.
func (r *Run) RootDir() string { return r.rootDir }

// AddInput records a loaded dataset.
func (r *Run) AddInput(in Input) {
	r.Inputs = append(r.Inputs, in)
}

// AddArtifact records a written file. Paths inside the output directory are
// stored relative to it.
func (r *Run) AddArtifact(kind Kind, pass, path, title string) *Artifact {
	if rel, err := filepath.Rel(r.rootDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	a := &Artifact{Kind: kind, Pass: pass, Path: filepath.ToSlash(path), Title: title, CreatedAt: time.Now()}
	r.Artifacts = append(r.Artifacts, a)
	return a
}

// ArtifactsOf returns artifacts of the given kind ordered by path; an empty
// kind returns all of them.
func (r *Run) ArtifactsOf(kind Kind) []*Artifact {
	var out []*Artifact
	for _, a := range r.Artifacts {
		if kind == "" || a.Kind == kind {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Save writes manifest.json using atomic write.
func (r *Run) Save() error {
	if r.rootDir == "" {
		return errors.New("run output directory not set")
	}
	if err := utils.EnsureDir(r.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	r.FinishedAt = time.Now()
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(r.rootDir, manifestFileName), data)
}
