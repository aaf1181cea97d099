package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := Newf(KindNotFound, "order %s doesn't exist", "A1B2C3")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "order A1B2C3 doesn't exist", err.Error())

	// wrapped errors keep their kind
	wrapped := fmt.Errorf("set status: %w", err)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindForbidden))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("connection reset")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
