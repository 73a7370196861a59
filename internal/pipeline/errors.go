package pipeline

import (
	"errors"
	"fmt"

	"github.com/fpang/logonova/internal/provider"
)

// Code is the failure category surfaced to callers.
type Code string

const (
	// CodeCredentialInvalid means the provider rejected the credential; the
	// caller should re-prompt for credential selection rather than retry.
	CodeCredentialInvalid Code = "CredentialInvalid"
	// CodeImageGenerationFailure means no tier produced a primary image.
	CodeImageGenerationFailure Code = "ImageGenerationFailure"
	// CodeStrategyParsingFailure means the strategy text was not a parseable object.
	CodeStrategyParsingFailure Code = "StrategyParsingFailure"
	// CodeContentPolicyRejection means the provider refused the prompt or output.
	CodeContentPolicyRejection Code = "ContentPolicyRejection"
	// CodeMotionSynthesisFailure covers any failure in the video job lifecycle.
	CodeMotionSynthesisFailure Code = "MotionSynthesisFailure"
	// CodeInvalidRequest means the call itself was malformed, e.g. a bad count.
	CodeInvalidRequest Code = "InvalidRequest"
)

// NoSlot marks an Error that is not tied to one pipeline instance.
const NoSlot = -1

// Error is a fatal pipeline, batch or motion failure.
type Error struct {
	Code Code
	// Slot is the sequence index of the failing pipeline, or NoSlot.
	Slot   int
	Reason provider.Reason
	Err    error
}

func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Slot != NoSlot {
		prefix = fmt.Sprintf("slot %d: %s", e.Slot, e.Code)
	}
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the Code carried by err, or "" when err is nil or unclassified.
func CodeOf(err error) Code {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return ""
}

// newError classifies err by its provider reason. Credential and content
// policy reasons override the stage's own code.
func newError(stageCode Code, slot int, err error) *Error {
	reason := provider.ReasonOf(err)
	code := stageCode
	switch reason {
	case provider.ReasonCredential:
		code = CodeCredentialInvalid
	case provider.ReasonContentPolicy:
		code = CodeContentPolicyRejection
	}
	return &Error{Code: code, Slot: slot, Reason: reason, Err: err}
}

var userMessages = map[Code]string{
	CodeCredentialInvalid:      "Your API key was rejected or is not entitled to this model. Please select a valid key and try again.",
	CodeImageGenerationFailure: "The brand mark could not be rendered. Please try again.",
	CodeStrategyParsingFailure: "The brand strategy came back unreadable. Please try again.",
	CodeContentPolicyRejection: "The request was blocked by the content policy. Try rephrasing the business name or niche.",
	CodeMotionSynthesisFailure: "The motion asset could not be generated. You can try again later.",
	CodeInvalidRequest:         "The request was invalid. Please check the brand settings.",
}

// UserMessage maps err to one human-readable status line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := userMessages[CodeOf(err)]; ok {
		return msg
	}
	return "Something went wrong while generating your brand. Please try again."
}
