package provider

import (
	"context"
	"errors"
	"strings"
)

// Reason categorizes a provider failure so callers can choose wording without
// inspecting raw backend errors.
type Reason string

const (
	ReasonCredential    Reason = "credential"
	ReasonContentPolicy Reason = "content_policy"
	ReasonMalformed     Reason = "malformed_response"
	ReasonTransient     Reason = "transient"
	ReasonUnknown       Reason = "unknown"
)

// ErrNoImage is returned when a response carries no image data.
var ErrNoImage = errors.New("response contained no image data")

// ErrNoVideo is returned when a finished video job carries no video.
var ErrNoVideo = errors.New("video job finished without a video")

// Error is a classified provider failure.
type Error struct {
	Reason Reason
	// Op is the capability that failed, e.g. "generate_image".
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + string(e.Reason)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err by message and wraps it. Errors that already carry a
// Reason keep it.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Reason: ReasonOf(err), Op: op, Err: err}
}

// ReasonOf returns the classification of err. Unclassified errors are matched
// against common backend message patterns.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Reason
	}
	if errors.Is(err, ErrNoImage) || errors.Is(err, ErrNoVideo) {
		return ReasonMalformed
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ReasonTransient
	}
	return classifyMessage(err.Error())
}

func classifyMessage(msg string) Reason {
	m := strings.ToLower(msg)
	switch {
	case containsAny(m, "api key not valid", "invalid api key", "api_key_invalid",
		"permission denied", "unauthenticated", "requested entity was not found", "billing"):
		return ReasonCredential
	case containsAny(m, "safety", "prohibited", "blocked", "content policy", "responsible ai"):
		return ReasonContentPolicy
	case containsAny(m, "quota", "resource exhausted", "rate limit", "connection", "network",
		"timeout", "dial", "no such host", "unreachable", "unavailable", "internal error"):
		return ReasonTransient
	}
	return ReasonUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
