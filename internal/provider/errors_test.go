package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{"nil", nil, ""},
		{"classified", &Error{Reason: ReasonContentPolicy, Op: "generate_image"}, ReasonContentPolicy},
		{"wrapped classified", fmt.Errorf("stage 1: %w", &Error{Reason: ReasonCredential}), ReasonCredential},
		{"no image", fmt.Errorf("baseline: %w", ErrNoImage), ReasonMalformed},
		{"deadline", context.DeadlineExceeded, ReasonTransient},
		{"invalid key message", errors.New("API key not valid. Please pass a valid API key."), ReasonCredential},
		{"entity not found", errors.New("Requested entity was not found."), ReasonCredential},
		{"safety message", errors.New("candidate blocked: SAFETY"), ReasonContentPolicy},
		{"quota message", errors.New("RESOURCE EXHAUSTED: quota"), ReasonTransient},
		{"other", errors.New("something odd"), ReasonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReasonOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("generate_text", nil))

	base := errors.New("dial tcp: no such host")
	err := Wrap("generate_text", base)

	var pErr *Error
	assert.True(t, errors.As(err, &pErr))
	assert.Equal(t, ReasonTransient, pErr.Reason)
	assert.Equal(t, "generate_text", pErr.Op)
	assert.ErrorIs(t, err, base)

	rewrapped := Wrap("other", &Error{Reason: ReasonContentPolicy, Err: base})
	assert.Equal(t, ReasonContentPolicy, ReasonOf(rewrapped))
}
