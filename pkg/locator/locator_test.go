// File: pkg/locator/locator_test.go
package locator

import (
	"errors"
	"strings"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Projectplace/basepage/pkg/driver"
)

func TestResolveSubstitutesPlaceholders(t *testing.T) {
	loc := New(driver.ByID, "menu-item-{id}")

	resolved, err := Resolve(loc, map[string]string{"id": "7"})

	require.NoError(t, err)
	assert.Equal(t, driver.ByID, resolved.Strategy)
	assert.Equal(t, "menu-item-7", resolved.Selector)
}

func TestResolveWithoutPlaceholders(t *testing.T) {
	loc := New(driver.ByCSS, "div.toolbar > button")

	resolved, err := Resolve(loc, nil)

	require.NoError(t, err)
	assert.Equal(t, "div.toolbar > button", resolved.Selector)
}

func TestResolveMultiplePlaceholders(t *testing.T) {
	loc := New(driver.ByXPath, `//div[@data-board="{board}"]//li[text()="{card}"]`)

	resolved, err := Resolve(loc, map[string]string{"board": "sprint-12", "card": "Fix login"})

	require.NoError(t, err)
	assert.Equal(t, `//div[@data-board="sprint-12"]//li[text()="Fix login"]`, resolved.Selector)
}

func TestResolveMissingParameter(t *testing.T) {
	loc := New(driver.ByCSS, "#row-{index}")

	_, err := Resolve(loc, nil)

	var perr *PlaceholderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "index", perr.Key)
	assert.Contains(t, err.Error(), "{index}")
}

func TestResolveParameterPrecedence(t *testing.T) {
	loc := Locator{
		Strategy: driver.ByCSS,
		Template: "#{kind}-{id}",
		Params:   map[string]string{"kind": "task", "id": "default"},
	}

	t.Run("locator params fill gaps", func(t *testing.T) {
		resolved, err := Resolve(loc, nil)
		require.NoError(t, err)
		assert.Equal(t, "#task-default", resolved.Selector)
	})

	t.Run("call params win", func(t *testing.T) {
		resolved, err := Resolve(loc, map[string]string{"id": "42"})
		require.NoError(t, err)
		assert.Equal(t, "#task-42", resolved.Selector)
	})

	t.Run("locator params are not mutated", func(t *testing.T) {
		_, err := Resolve(loc, map[string]string{"id": "42"})
		require.NoError(t, err)
		assert.Equal(t, "default", loc.Params["id"])
	})
}

func TestResolveMalformedTemplates(t *testing.T) {
	t.Run("unterminated placeholder", func(t *testing.T) {
		_, err := Resolve(New(driver.ByCSS, "#row-{index"), map[string]string{"index": "1"})
		var ierr *InvalidParameterError
		require.ErrorAs(t, err, &ierr)
		assert.Contains(t, err.Error(), "unterminated")
	})

	t.Run("empty placeholder", func(t *testing.T) {
		_, err := Resolve(New(driver.ByCSS, "#row-{}"), nil)
		var ierr *InvalidParameterError
		require.ErrorAs(t, err, &ierr)
		assert.Contains(t, err.Error(), "empty placeholder")
	})
}

func TestLocatorString(t *testing.T) {
	loc := New(driver.ByXPath, "//a[@id='x']")
	assert.Equal(t, "type <xpath> selector <//a[@id='x']>", loc.String())

	resolved := Resolved{Strategy: driver.ByCSS, Selector: "#x"}
	assert.Equal(t, "type <css selector> selector <#x>", resolved.String())
}

// FuzzResolve checks that arbitrary templates and parameter maps never
// panic, that failures are always one of the two typed errors, and that a
// template without placeholder syntax round-trips untouched.
func FuzzResolve(f *testing.F) {
	f.Add([]byte("menu-item-{id}"), []byte("id=7"))
	f.Add([]byte("{a}{b}{c}"), []byte("junk"))
	f.Add([]byte("no placeholders"), []byte(""))
	f.Add([]byte("#row-{"), []byte("x=y"))

	f.Fuzz(func(t *testing.T, templateData, paramData []byte) {
		consumer := fuzz.NewConsumer(paramData)
		params := make(map[string]string)
		_ = consumer.FuzzMap(&params)

		template := string(templateData)
		resolved, err := Resolve(New(driver.ByCSS, template), params)
		if err != nil {
			var perr *PlaceholderError
			var ierr *InvalidParameterError
			if !assert.True(t, errors.As(err, &perr) || errors.As(err, &ierr)) {
				t.Fatalf("Resolve returned an untyped error %T for template %q", err, template)
			}
			return
		}
		if !strings.ContainsRune(template, '{') {
			assert.Equal(t, template, resolved.Selector)
		}
	})
}
