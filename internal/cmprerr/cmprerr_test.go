package cmprerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatalDetectsWrappedFatal(t *testing.T) {
	base := errors.New("disk full")
	wrapped := fmt.Errorf("persist: %w", NewFatal(base))
	assert.True(t, IsFatal(wrapped))
}

func TestIsFatalFalseForPlainError(t *testing.T) {
	assert.False(t, IsFatal(errors.New("transient")))
}

func TestNewFatalNilIsNil(t *testing.T) {
	assert.Nil(t, NewFatal(nil))
}

func TestFatalfUnwraps(t *testing.T) {
	err := Fatalf("arena overflow at %d", 42)
	assert.Contains(t, err.Error(), "42")
	assert.True(t, IsFatal(err))
}
