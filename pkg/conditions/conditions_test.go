// File: pkg/conditions/conditions_test.go
package conditions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/locator"
)

// fakeElement is a scriptable element handle. Any of the error fields can
// be set to simulate transient or terminal failures per call.
type fakeElement struct {
	driver.Element

	displayed    bool
	displayedErr error
	enabled      bool
	enabledErr   error
}

func (f *fakeElement) IsDisplayed(ctx context.Context) (bool, error) {
	return f.displayed, f.displayedErr
}

func (f *fakeElement) IsEnabled(ctx context.Context) (bool, error) {
	return f.enabled, f.enabledErr
}

// fakeFinder returns a fixed result set, or an error, for every query.
type fakeFinder struct {
	elements []driver.Element
	err      error
}

func (f *fakeFinder) FindElement(ctx context.Context, s driver.Strategy, sel string) (driver.Element, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.elements) == 0 {
		return nil, fmt.Errorf("nothing matches %q: %w", sel, driver.ErrNoSuchElement)
	}
	return f.elements[0], nil
}

func (f *fakeFinder) FindElements(ctx context.Context, s driver.Strategy, sel string) ([]driver.Element, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.elements, nil
}

// unused driver surface so fakeFinder can stand in where a scope is needed.
var _ driver.Finder = (*fakeFinder)(nil)

var testLoc = locator.Resolved{Strategy: driver.ByCSS, Selector: "#target"}

func staleErr() error {
	return fmt.Errorf("node went away: %w", driver.ErrStaleElement)
}

// -- Present / AllPresent --

func TestPresent(t *testing.T) {
	ctx := context.Background()

	t.Run("satisfied once an element matches", func(t *testing.T) {
		el := &fakeElement{}
		got, ok, err := Present(&fakeFinder{elements: []driver.Element{el}}, testLoc)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, el, got)
	})

	t.Run("not-found is pending, not an error", func(t *testing.T) {
		_, ok, err := Present(&fakeFinder{}, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("stale lookup is pending", func(t *testing.T) {
		_, ok, err := Present(&fakeFinder{err: staleErr()}, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other errors are terminal", func(t *testing.T) {
		boom := errors.New("session gone")
		_, _, err := Present(&fakeFinder{err: boom}, testLoc)(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAllPresent(t *testing.T) {
	ctx := context.Background()

	t.Run("empty result set keeps the condition pending", func(t *testing.T) {
		_, ok, err := AllPresent(&fakeFinder{}, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("yields every match", func(t *testing.T) {
		els := []driver.Element{&fakeElement{}, &fakeElement{}}
		got, ok, err := AllPresent(&fakeFinder{elements: els}, testLoc)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, got, 2)
	})
}

// -- Visible / AllVisible / Clickable --

func TestVisible(t *testing.T) {
	ctx := context.Background()

	t.Run("hidden element is pending", func(t *testing.T) {
		scope := &fakeFinder{elements: []driver.Element{&fakeElement{displayed: false}}}
		_, ok, err := Visible(scope, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("displayed element satisfies", func(t *testing.T) {
		el := &fakeElement{displayed: true}
		got, ok, err := Visible(&fakeFinder{elements: []driver.Element{el}}, testLoc)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, el, got)
	})

	t.Run("staleness during the displayed check is pending", func(t *testing.T) {
		scope := &fakeFinder{elements: []driver.Element{&fakeElement{displayedErr: staleErr()}}}
		_, ok, err := Visible(scope, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAllVisible(t *testing.T) {
	ctx := context.Background()

	t.Run("one hidden member keeps the whole set pending", func(t *testing.T) {
		scope := &fakeFinder{elements: []driver.Element{
			&fakeElement{displayed: true},
			&fakeElement{displayed: false},
		}}
		_, ok, err := AllVisible(scope, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("all displayed satisfies", func(t *testing.T) {
		scope := &fakeFinder{elements: []driver.Element{
			&fakeElement{displayed: true},
			&fakeElement{displayed: true},
		}}
		got, ok, err := AllVisible(scope, testLoc)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, got, 2)
	})
}

func TestClickable(t *testing.T) {
	ctx := context.Background()

	t.Run("visible but disabled is pending", func(t *testing.T) {
		scope := &fakeFinder{elements: []driver.Element{&fakeElement{displayed: true, enabled: false}}}
		_, ok, err := Clickable(scope, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("visible and enabled satisfies", func(t *testing.T) {
		el := &fakeElement{displayed: true, enabled: true}
		got, ok, err := Clickable(&fakeFinder{elements: []driver.Element{el}}, testLoc)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, el, got)
	})
}

// -- Invisible --

func TestInvisible(t *testing.T) {
	ctx := context.Background()

	t.Run("absent element satisfies immediately", func(t *testing.T) {
		_, ok, err := Invisible(&fakeFinder{}, testLoc)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("visible element is pending", func(t *testing.T) {
		scope := &fakeFinder{elements: []driver.Element{&fakeElement{displayed: true}}}
		_, ok, err := Invisible(scope, testLoc)(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hidden-in-place element satisfies", func(t *testing.T) {
		scope := &fakeFinder{elements: []driver.Element{&fakeElement{displayed: false}}}
		_, ok, err := Invisible(scope, testLoc)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("element that went stale mid-check satisfies", func(t *testing.T) {
		el := &fakeElement{displayedErr: staleErr()}
		_, ok, err := InvisibleElement(el)(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("terminal errors still propagate", func(t *testing.T) {
		boom := errors.New("websocket closed")
		el := &fakeElement{displayedErr: boom}
		_, _, err := InvisibleElement(el)(ctx)
		assert.ErrorIs(t, err, boom)
	})
}
