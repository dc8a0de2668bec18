package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	t.Run("Success_GeneratesPrefixedID", func(t *testing.T) {
		id := NewID("rec")
		assert.True(t, strings.HasPrefix(id, "rec_"))
		assert.Len(t, id, len("rec_")+26) // ULIDs are 26 chars
	})

	t.Run("Success_NormalizesPrefix", func(t *testing.T) {
		id := NewID("  EMP ")
		assert.True(t, strings.HasPrefix(id, "emp_"))
	})

	t.Run("Success_IDsAreUnique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := NewID("wf")
			assert.False(t, seen[id])
			seen[id] = true
		}
	})

	t.Run("Error_EmptyPrefixPanics", func(t *testing.T) {
		assert.Panics(t, func() { NewID("  ") })
	})
}
