package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rwerrors "github.com/chazuruo/rewind/internal/errors"
)

// TestBaseErrors verifies that all base error types have correct messages.
func TestBaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrNotFound", rwerrors.ErrNotFound, "not found"},
		{"ErrInvalid", rwerrors.ErrInvalid, "invalid"},
		{"ErrStore", rwerrors.ErrStore, "store operation failed"},
		{"ErrTerminal", rwerrors.ErrTerminal, "terminal unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := fmt.Errorf("database is locked")
	err := &rwerrors.StoreError{Op: "search", Err: cause}

	assert.Equal(t, "store search: database is locked", err.Error())
	assert.True(t, errors.Is(err, cause), "Unwrap should expose the cause")
	assert.True(t, rwerrors.IsStore(err))
	assert.False(t, rwerrors.IsTerminal(err))

	wrapped := rwerrors.Wrap(err, "requery")
	assert.Equal(t, "requery: store search: database is locked", wrapped.Error())
	assert.True(t, rwerrors.IsStore(wrapped))

	se, ok := rwerrors.AsStoreError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "search", se.Op)
}

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *rwerrors.ConfigError
		want string
	}{
		{
			name: "with path",
			err:  &rwerrors.ConfigError{Path: "/etc/rewind.toml", Err: rwerrors.ErrInvalid},
			want: "config /etc/rewind.toml: invalid",
		},
		{
			name: "without path",
			err:  &rwerrors.ConfigError{Err: rwerrors.ErrNotFound},
			want: "config: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	ce, ok := rwerrors.AsConfigError(rwerrors.Wrap(tests[0].err, "load"))
	require.True(t, ok)
	assert.Equal(t, "/etc/rewind.toml", ce.Path)
	assert.True(t, rwerrors.IsInvalid(ce))
}

func TestTerminalError(t *testing.T) {
	err := &rwerrors.TerminalError{Err: fmt.Errorf("not a tty")}

	assert.Equal(t, "terminal: not a tty", err.Error())
	assert.True(t, rwerrors.IsTerminal(err))
	assert.True(t, rwerrors.IsTerminal(rwerrors.Wrap(err, "search")))
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, rwerrors.Wrap(nil, "noop"))
	})

	t.Run("sentinel is reachable", func(t *testing.T) {
		err := rwerrors.Wrapf(rwerrors.ErrNotFound, "open %s", "history.db")
		assert.Equal(t, "open history.db: not found", err.Error())
		assert.True(t, rwerrors.IsNotFound(err))
		assert.False(t, rwerrors.IsInvalid(err))
	})
}
