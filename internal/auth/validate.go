package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/logonova/internal/metrics"
	"github.com/fpang/logonova/internal/provider"
)

// ValidationError represents a specific type of API key validation failure.
type ValidationError struct {
	Type    ValidationErrorType
	Message string
	Err     error
}

// ValidationErrorType categorizes validation failures.
type ValidationErrorType int

const (
	// ErrTypeNoKey indicates no API key was found.
	ErrTypeNoKey ValidationErrorType = iota
	// ErrTypeInvalidKey indicates the API key is invalid, revoked or not entitled.
	ErrTypeInvalidKey
	// ErrTypeNetworkError indicates a network, quota or server problem.
	ErrTypeNetworkError
	// ErrTypeUnknown indicates an unknown error occurred.
	ErrTypeUnknown
)

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validator makes a minimal authenticated request.
type Validator interface {
	Validate(ctx context.Context) error
}

// ValidateAPIKey verifies the key behind v with a minimal API call. It
// returns nil if the key works, or a ValidationError describing why not.
func ValidateAPIKey(ctx context.Context, v Validator) error {
	start := time.Now()
	err := v.Validate(ctx)
	elapsed := time.Since(start)

	result := "success"
	var valErr *ValidationError
	if err != nil {
		valErr = classifyError(err)
		result = valErr.result()
	}

	metrics.New(metrics.Namespace).
		Dimension("Result", result).
		Duration("ApiKeyValidationMs", elapsed).
		Count("ApiKeyValidationResult").
		Flush()

	log.Debug().
		Str("result", result).
		Dur("duration", elapsed).
		Msg("API key validation result")

	if valErr != nil {
		return valErr
	}
	return nil
}

// classifyError maps a provider error onto a ValidationError.
func classifyError(err error) *ValidationError {
	if errors.Is(err, ErrNoKey) || errors.Is(err, ErrNoCredential) {
		return &ValidationError{Type: ErrTypeNoKey, Message: "No API key configured", Err: err}
	}

	switch provider.ReasonOf(err) {
	case provider.ReasonCredential:
		log.Error().Err(err).Msg("Invalid API key")
		return &ValidationError{
			Type:    ErrTypeInvalidKey,
			Message: "API key is invalid, expired, or lacks permissions",
			Err:     err,
		}
	case provider.ReasonTransient:
		log.Error().Err(err).Msg("Network error during API validation")
		return &ValidationError{
			Type:    ErrTypeNetworkError,
			Message: "Network, quota or server error - try again later",
			Err:     err,
		}
	default:
		log.Error().Err(err).Msg("Unknown error during API validation")
		return &ValidationError{
			Type:    ErrTypeUnknown,
			Message: "Failed to validate API key",
			Err:     err,
		}
	}
}

func (e *ValidationError) result() string {
	switch e.Type {
	case ErrTypeNoKey:
		return "no_key"
	case ErrTypeInvalidKey:
		return "invalid"
	case ErrTypeNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}
