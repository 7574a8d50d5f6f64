package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type statusErr struct{ code int }

func (e *statusErr) Error() string { return fmt.Sprintf("status %d", e.code) }
func (e *statusErr) Kind() Kind    { return RequestFailed }

func TestKindOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, Unknown},
		{"plain", base, Unknown},
		{"classified", New(HostQueryFailed, "system info", base), HostQueryFailed},
		{"wrapped classified", fmt.Errorf("launch: %w", New(LauncherToolMissing, "resolve", base)), LauncherToolMissing},
		{"kinded", &statusErr{code: 404}, RequestFailed},
		{"wrapped kinded", fmt.Errorf("fetch: %w", &statusErr{code: 500}), RequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("exit status 2")
	err := New(LauncherToolFailed, "open", base)

	assert.ErrorIs(t, err, base)
	assert.True(t, Is(err, LauncherToolFailed))
	assert.Equal(t, "open: exit status 2", err.Error())
	assert.Equal(t, "open: launcher_tool_missing", New(LauncherToolMissing, "open", nil).Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "request_network_error", RequestNetworkError.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
