package exitcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToExternalMasksInternalBits(t *testing.T) {
	assert.Equal(t, Success, Success.ToExternal())
	assert.Equal(t, Failed, Failed.ToExternal())
	assert.Equal(t, Incomplete, Incomplete.ToExternal())
	assert.Equal(t, Failed, SubprocessExecuteFailed.ToExternal())
}

func TestIsInternal(t *testing.T) {
	assert.True(t, SubprocessExecuteFailed.IsInternal())
	assert.False(t, Success.IsInternal())
	assert.False(t, Failed.IsInternal())
	assert.False(t, Incomplete.IsInternal())
}

func TestExternalValues(t *testing.T) {
	assert.Equal(t, 0, int(Success))
	assert.Equal(t, 1, int(Failed))
	assert.Equal(t, 2, int(Incomplete))
}
