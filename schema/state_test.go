package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaselineRecordHasBaseline(t *testing.T) {
	assert.False(t, BaselineRecord{}.HasBaseline())
	assert.False(t, BaselineRecord{FailedFiles: []string{"a.py"}}.HasBaseline())
	assert.True(t, BaselineRecord{BaselineSHA: "abc123"}.HasBaseline())
}

func TestBaselineRecordClone(t *testing.T) {
	orig := BaselineRecord{BaselineSHA: "abc123", FailedFiles: []string{"a.py"}}
	clone := orig.Clone()
	clone.FailedFiles[0] = "b.py"

	assert.Equal(t, []string{"a.py"}, orig.FailedFiles, "clone must not share the failed files slice")
	assert.Equal(t, "abc123", clone.BaselineSHA)
}

func TestMergeFailedFiles(t *testing.T) {
	t.Run("union is sorted and deduplicated", func(t *testing.T) {
		rec := BaselineRecord{FailedFiles: []string{"b.py", "a.py"}}
		merged := rec.MergeFailedFiles([]string{"c.py", "a.py"})
		assert.Equal(t, []string{"a.py", "b.py", "c.py"}, merged)
	})

	t.Run("previous set is never dropped", func(t *testing.T) {
		rec := BaselineRecord{FailedFiles: []string{"old.py"}}
		merged := rec.MergeFailedFiles([]string{"new.py"})
		assert.Contains(t, merged, "old.py")
		assert.Contains(t, merged, "new.py")
	})

	t.Run("empty entries are ignored", func(t *testing.T) {
		rec := BaselineRecord{FailedFiles: []string{""}}
		merged := rec.MergeFailedFiles([]string{"", "x.py"})
		assert.Equal(t, []string{"x.py"}, merged)
	})

	t.Run("merging into empty set", func(t *testing.T) {
		merged := BaselineRecord{}.MergeFailedFiles([]string{"a.py"})
		assert.Equal(t, []string{"a.py"}, merged)
	})
}
