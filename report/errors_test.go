package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionErrorString(t *testing.T) {
	// Columns are stored 0-indexed and displayed 1-indexed.
	assert.Equal(t,
		"/proj/a.ts(3,1): Incorrect reference: File contains reference to itself.",
		ResolutionErrorString("/proj/a.ts", 3, 0, "Incorrect reference: File contains reference to itself."))

	assert.Equal(t,
		"/proj/b.ts(12,9): Incorrect import: imported file: \"lib\" cannot be resolved.",
		ResolutionErrorString("/proj/b.ts", 12, 8, "Incorrect import: imported file: \"lib\" cannot be resolved."))
}
