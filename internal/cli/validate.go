package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fpang/logonova/internal/auth"
)

// ResolveOutputDirectory creates dirPath if needed and returns its absolute path.
func ResolveOutputDirectory(dirPath string) (string, error) {
	if dirPath == "" {
		dirPath = "."
	}
	info, err := os.Stat(dirPath)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("failed to access output directory: %w", err)
	case !info.IsDir():
		return "", fmt.Errorf("output path %s is not a directory", dirPath)
	}

	if absPath, err := filepath.Abs(dirPath); err == nil {
		dirPath = absPath
	}
	return dirPath, nil
}

// ValidationMessage turns an API key validation error into one line of
// guidance for the terminal. A nil error reports success.
func ValidationMessage(err error) string {
	if err == nil {
		return "API key is valid."
	}
	var validationErr *auth.ValidationError
	if !errors.As(err, &validationErr) {
		return "Unexpected error during API key validation: " + err.Error()
	}
	switch validationErr.Type {
	case auth.ErrTypeNoKey:
		return "No API key configured. Set LOGONOVA_API_KEY or run `logonova credential select`."
	case auth.ErrTypeInvalidKey:
		return "The API key was rejected. Select a key from a project with access to the image models."
	case auth.ErrTypeNetworkError:
		return "Could not reach the provider. Check your internet connection and try again."
	default:
		return "API key validation failed: " + validationErr.Message
	}
}
