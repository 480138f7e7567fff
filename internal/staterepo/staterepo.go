// Package staterepo persists branch-scoped workflow state as a
// workspace-local JSON file. Baseline records live under the quality_gates
// key; every other key in the file belongs to sibling features and is
// preserved byte-for-byte on write.
package staterepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// State file keys owned or read by this subsystem.
const (
	// parentBranchKey is a top-level key, not nested under any sub-object.
	parentBranchKey = "parent_branch"

	// qualityGatesKey is the only key range this store ever mutates.
	qualityGatesKey = "quality_gates"
)

// Lock acquisition parameters for the advisory lock file.
const (
	lockRetryInterval = 50 * time.Millisecond
	lockWaitTimeout   = 5 * time.Second
	lockStaleAfter    = 10 * time.Minute
)

// FileStateStore implements contract.StateStore over a JSON file guarded by
// an advisory lock file.
type FileStateStore struct {
	path string
}

var _ contract.StateStore = &FileStateStore{} // Compile-time check

// NewFileStateStore creates a store for the state file at path. The file is
// created lazily on first write.
func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path}
}

// ParentBranch reads the top-level parent_branch key, or "" when unset.
func (s *FileStateStore) ParentBranch() (string, error) {
	raw, err := s.load()
	if err != nil {
		return "", err
	}
	msg, ok := raw[parentBranchKey]
	if !ok {
		return "", nil
	}
	var branch string
	if err := json.Unmarshal(msg, &branch); err != nil {
		return "", fmt.Errorf("state file %s has a malformed %s value: %w", s.path, parentBranchKey, err)
	}
	return branch, nil
}

// LoadBaseline returns the baseline record for a branch. A missing file or
// record comes back as a zero value.
func (s *FileStateStore) LoadBaseline(branch string) (schema.BaselineRecord, error) {
	raw, err := s.load()
	if err != nil {
		return schema.BaselineRecord{}, err
	}
	records, err := decodeBaselines(raw)
	if err != nil {
		return schema.BaselineRecord{}, err
	}
	return records[branch], nil
}

// SaveBaseline persists the baseline record for a branch, rewriting only the
// quality_gates sub-key.
func (s *FileStateStore) SaveBaseline(branch string, rec schema.BaselineRecord) error {
	return s.mutate(func(records map[string]schema.BaselineRecord) {
		records[branch] = rec
	})
}

// ResetBaseline removes the baseline record for a branch.
func (s *FileStateStore) ResetBaseline(branch string) error {
	return s.mutate(func(records map[string]schema.BaselineRecord) {
		delete(records, branch)
	})
}

// mutate performs a locked read-modify-write cycle of the owned sub-key.
func (s *FileStateStore) mutate(apply func(map[string]schema.BaselineRecord)) error {
	unlock, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	raw, err := s.load()
	if err != nil {
		return err
	}
	records, err := decodeBaselines(raw)
	if err != nil {
		return err
	}
	apply(records)

	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("could not encode baseline state: %w", err)
	}
	raw[qualityGatesKey] = encoded
	return s.write(raw)
}

func (s *FileStateStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read state file %s: %w", s.path, err)
	}
	raw := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("state file %s is not valid JSON: %w", s.path, err)
		}
	}
	return raw, nil
}

func (s *FileStateStore) write(raw map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode state file: %w", err)
	}
	// Write-then-rename so a crashed run never leaves a torn state file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("could not replace state file: %w", err)
	}
	return nil
}

func decodeBaselines(raw map[string]json.RawMessage) (map[string]schema.BaselineRecord, error) {
	records := map[string]schema.BaselineRecord{}
	msg, ok := raw[qualityGatesKey]
	if !ok {
		return records, nil
	}
	if err := json.Unmarshal(msg, &records); err != nil {
		return nil, fmt.Errorf("state key %q is malformed: %w", qualityGatesKey, err)
	}
	return records, nil
}

// acquireLock takes the advisory lock file, breaking locks older than
// lockStaleAfter. Contention past lockWaitTimeout is an error rather than
// an indefinite wait.
func (s *FileStateStore) acquireLock() (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}

	deadline := time.Now().Add(lockWaitTimeout)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("could not acquire state lock: %w", err)
		}
		if info, statErr := os.Stat(lockPath); statErr == nil && time.Since(info.ModTime()) > lockStaleAfter {
			_ = os.Remove(lockPath)
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("state file %s is locked by another run; remove %s if that run is dead", s.path, lockPath)
		}
		time.Sleep(lockRetryInterval)
	}
}
