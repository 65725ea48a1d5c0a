// ABOUTME: Tests for the provider factory and error types.
// ABOUTME: Covers kind parsing, store requirements and error unwrapping.
package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("healthkit")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	p, err := New(KindMock, nil)
	require.NoError(t, err)
	assert.IsType(t, &Mock{}, p)

	p, err = New(KindLive, newFakeStore())
	require.NoError(t, err)
	assert.IsType(t, &Live{}, p)

	p, err = New(KindInject, newFakeStore())
	require.NoError(t, err)
	assert.IsType(t, &Inject{}, p)

	_, err = New(KindLive, nil)
	assert.Error(t, err)
	_, err = New(Kind("bogus"), newFakeStore())
	assert.Error(t, err)
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("boom")

	fe := &FetchError{Cause: cause}
	assert.ErrorIs(t, fe, ErrFetchFailed)
	assert.ErrorIs(t, fe, cause)
	assert.Contains(t, fe.Error(), "boom")

	ae := &AccessError{Cause: cause}
	assert.ErrorIs(t, ae, ErrAccessUnknown)
	assert.ErrorIs(t, ae, cause)
	assert.NotErrorIs(t, ae, ErrAccessDenied)
}
