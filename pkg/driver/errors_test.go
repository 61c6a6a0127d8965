// File: pkg/driver/errors_test.go
package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Run("stale detection sees through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("clicking failed: %w", ErrStaleElement)
		assert.True(t, IsStale(wrapped))
		assert.False(t, IsStale(errors.New("clicking failed: element is stale")),
			"classification is by sentinel, never by message text")
	})

	t.Run("not-found detection", func(t *testing.T) {
		wrapped := fmt.Errorf("no element matches %q: %w", "#x", ErrNoSuchElement)
		assert.True(t, IsNotFound(wrapped))
		assert.False(t, IsNotFound(ErrStaleElement))
	})

	t.Run("nil is neither", func(t *testing.T) {
		assert.False(t, IsStale(nil))
		assert.False(t, IsNotFound(nil))
	})
}
