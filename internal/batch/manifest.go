package batch

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/kop-cichra/slsbench/internal/errors"
	"github.com/kop-cichra/slsbench/internal/solver"
)

// ManifestSuffix is appended to the summary log path to name the manifest.
const ManifestSuffix = ".manifest.json"

// Manifest is the audit record of one finished batch.
type Manifest struct {
	BatchID     string            `json:"batch_id"`
	Timestamp   time.Time         `json:"timestamp"`
	Solver      string            `json:"solver"`
	Command     []string          `json:"command"`
	InputHashes map[string]string `json:"input_hashes"`
	Summary     *Summary          `json:"summary"`
	Duration    string            `json:"duration"`
}

// NewManifest builds the manifest for a finished batch, hashing the CNF input.
func NewManifest(summary *Summary, s solver.Solver, spec Spec) (*Manifest, error) {
	m := &Manifest{
		BatchID:     summary.BatchID,
		Timestamp:   summary.Finished,
		Solver:      s.Name(),
		Command:     append([]string{s.Path()}, s.Args(spec.CNFPath)...),
		InputHashes: make(map[string]string),
		Summary:     summary,
		Duration:    summary.Finished.Sub(summary.Started).String(),
	}
	if err := m.AddInputHash(filepath.Base(spec.CNFPath), spec.CNFPath); err != nil {
		return nil, err
	}
	return m, nil
}

// HashFile computes the blake3 hash of a file
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot open %s", path), err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot hash %s", path), err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// AddInputHash adds an input file hash to the manifest
func (m *Manifest) AddInputHash(name, path string) error {
	hash, err := HashFile(path)
	if err != nil {
		return err
	}
	m.InputHashes[name] = hash
	return nil
}

// Save writes the manifest as indented JSON, replacing any previous one.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("cannot write %s", path), err)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
