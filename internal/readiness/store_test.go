package readiness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFileUsesDefaults(t *testing.T) {
	s := NewFileStore(t.TempDir())
	assert.Equal(t, DefaultThresholds(), s.Load(1))
}

func TestFileStoreSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "readiness")
	s := NewFileStore(dir)
	want := Thresholds{PlacementReady: 80, NeedsImprovement: 50, AtRisk: 5}
	require.NoError(t, s.Save(3, want))

	assert.Equal(t, want, s.Load(3))
	assert.Equal(t, DefaultThresholds(), s.Load(4))

	raw, err := os.ReadFile(filepath.Join(dir, "3.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"placement_ready_threshold\": 80")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStoreSaveRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	err := s.Save(1, Thresholds{PlacementReady: 30, NeedsImprovement: 60, AtRisk: 0})
	assert.ErrorIs(t, err, ErrInvalidThresholds)

	_, statErr := os.Stat(filepath.Join(dir, "1.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStoreFillsMissingKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.json"), []byte(`{"placement_ready_threshold": 90}`), 0o644))

	got := NewFileStore(dir).Load(1)
	assert.Equal(t, Thresholds{PlacementReady: 90, NeedsImprovement: 40, AtRisk: 0}, got)
}

func TestFileStoreBadFilesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.json"), []byte(`{not json`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.json"), []byte(`{"placement_ready_threshold": 10}`), 0o644))

	s := NewFileStore(dir)
	assert.Equal(t, DefaultThresholds(), s.Load(1))
	assert.Equal(t, DefaultThresholds(), s.Load(2))
}
