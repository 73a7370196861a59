package gemini

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/logonova/internal/provider"
)

// classify wraps a Gemini SDK error with a provider.Reason. API errors are
// classified by status code, everything else by message.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return &provider.Error{Reason: classifyAPIError(*apiErr), Op: op, Err: err}
	}
	var apiVal genai.APIError
	if errors.As(err, &apiVal) {
		return &provider.Error{Reason: classifyAPIError(apiVal), Op: op, Err: err}
	}
	return provider.Wrap(op, err)
}

// classifyAPIError categorizes a Google API error.
func classifyAPIError(err genai.APIError) provider.Reason {
	msg := strings.ToLower(err.Message)
	switch {
	case err.Code == 401 || err.Code == 403:
		log.Error().Int("code", err.Code).Msg("Authentication failed - invalid API key")
		return provider.ReasonCredential

	case err.Code == 400 && (strings.Contains(msg, "api key") || strings.Contains(msg, "api_key")):
		log.Error().Int("code", err.Code).Msg("Bad request - API key may be malformed")
		return provider.ReasonCredential

	case err.Code == 404 && strings.Contains(msg, "requested entity was not found"):
		// Returned when the key's project is not entitled to the model.
		log.Error().Int("code", err.Code).Msg("Model not available for this API key")
		return provider.ReasonCredential

	case err.Code == 429:
		log.Warn().Int("code", err.Code).Msg("Rate limit exceeded")
		return provider.ReasonTransient

	case err.Code >= 500 && err.Code <= 504:
		log.Warn().Int("code", err.Code).Msg("Gemini API server error")
		return provider.ReasonTransient
	}

	if r := provider.ReasonOf(errors.New(err.Message)); r != provider.ReasonUnknown {
		return r
	}
	log.Error().Int("code", err.Code).Str("message", err.Message).Msg("Google API error")
	return provider.ReasonUnknown
}
