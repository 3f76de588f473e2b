package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("failed to play: %w", ErrColumnFull)
	assert.ErrorIs(t, wrapped, ErrColumnFull)
	assert.NotErrorIs(t, wrapped, ErrGameEnded)

	rebuilt := &Error{Code: CodeColumnFull, Message: "remote says column full"}
	assert.ErrorIs(t, rebuilt, ErrColumnFull)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotYourMove, CodeOf(fmt.Errorf("x: %w", ErrNotYourMove)))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestFromCode(t *testing.T) {
	for code, sentinel := range codes {
		assert.Same(t, sentinel, FromCode(code))
	}
	assert.Len(t, codes, 12)
	assert.Nil(t, FromCode("NOPE"))
}
