package readiness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"careerlytics-backend/internal/shared/telemetry"
)

// ThresholdStore keeps the thresholds of each test.
type ThresholdStore interface {
	Load(testID int64) Thresholds
	Save(testID int64, t Thresholds) error
}

// FileStore keeps one indented JSON file per test under Dir.
type FileStore struct {
	Dir string

	mu sync.Mutex
}

// NewFileStore constructs a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(testID int64) string {
	return filepath.Join(s.Dir, strconv.FormatInt(testID, 10)+".json")
}

// Load returns the stored thresholds. A missing, unreadable or invalid file
// yields the defaults, and keys absent from the file keep their default.
func (s *FileStore) Load(testID int64) Thresholds {
	defaults := DefaultThresholds()
	raw, err := os.ReadFile(s.path(testID))
	if errors.Is(err, fs.ErrNotExist) {
		return defaults
	}
	if err != nil {
		telemetry.Warn("readiness.thresholds_unreadable", map[string]any{"test_id": testID, "error": err})
		return defaults
	}

	var stored struct {
		PlacementReady   *float64 `json:"placement_ready_threshold"`
		NeedsImprovement *float64 `json:"needs_improvement_threshold"`
		AtRisk           *float64 `json:"at_risk_threshold"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		telemetry.Warn("readiness.thresholds_corrupt", map[string]any{"test_id": testID, "error": err})
		return defaults
	}
	t := defaults
	if stored.PlacementReady != nil {
		t.PlacementReady = *stored.PlacementReady
	}
	if stored.NeedsImprovement != nil {
		t.NeedsImprovement = *stored.NeedsImprovement
	}
	if stored.AtRisk != nil {
		t.AtRisk = *stored.AtRisk
	}
	if err := t.Validate(); err != nil {
		telemetry.Warn("readiness.thresholds_invalid", map[string]any{"test_id": testID, "error": err})
		return defaults
	}
	return t
}

// Save validates t and replaces the test's file atomically.
func (s *FileStore) Save(testID int64, t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create thresholds dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, ".thresholds-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write thresholds: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync thresholds: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close thresholds: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(testID)); err != nil {
		return fmt.Errorf("replace thresholds: %w", err)
	}
	return nil
}

var _ ThresholdStore = (*FileStore)(nil)
