package auth

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/logonova/internal/metrics"
	"github.com/fpang/logonova/internal/provider"
)

func TestMain(m *testing.M) {
	metrics.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestGetAPIKeyFromEnv(t *testing.T) {
	t.Setenv("LOGONOVA_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "test-api-key-12345")

	key, err := GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "test-api-key-12345", key)
}

func TestGetAPIKeyPrefersOwnVariable(t *testing.T) {
	t.Setenv("LOGONOVA_API_KEY", " own-key ")
	t.Setenv("GEMINI_API_KEY", "shared-key")

	key, err := GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "own-key", key)
}

func TestGetAPIKeyNoSource(t *testing.T) {
	t.Setenv("LOGONOVA_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, err := GetAPIKey()
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestGetCredentialPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := getCredentialPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".logonova", "credentials.gpg"), path)
}

func TestGetFromGPGFileNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := getFromGPG()
	assert.Error(t, err)
}

func TestPassphraseFileRequiresOwnerOnly(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".logonova")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, ".gpg-passphrase")

	require.NoError(t, os.WriteFile(path, []byte("secret"), 0o644))
	_, ok := passphraseFile()
	assert.False(t, ok)

	require.NoError(t, os.Chmod(path, 0o600))
	got, ok := passphraseFile()
	assert.True(t, ok)
	assert.Equal(t, path, got)
}

type stubSelector struct {
	key string
	err error
}

func (s stubSelector) SelectKey(ctx context.Context) (string, error) { return s.key, s.err }

func TestGate_Lifecycle(t *testing.T) {
	g := NewGate(stubSelector{key: " picked "})
	assert.False(t, g.Selected())
	_, err := g.Key()
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, g.OpenSelection(context.Background()))
	assert.True(t, g.Selected())
	key, err := g.Key()
	require.NoError(t, err)
	assert.Equal(t, "picked", key)

	g.Clear()
	assert.False(t, g.Selected())
}

func TestGate_SelectionFailuresLeaveGateEmpty(t *testing.T) {
	g := NewGate(stubSelector{err: ErrSelectionCanceled})
	assert.ErrorIs(t, g.OpenSelection(context.Background()), ErrSelectionCanceled)
	assert.False(t, g.Selected())

	g = NewGate(stubSelector{key: "   "})
	assert.ErrorIs(t, g.OpenSelection(context.Background()), ErrNoCredential)
	assert.False(t, g.Selected())
}

func TestGate_ResolveKeepsSelectedKey(t *testing.T) {
	t.Setenv("LOGONOVA_API_KEY", "from-env")
	g := NewGate(nil)
	require.NoError(t, g.Use("chosen"))
	require.NoError(t, g.Resolve())
	key, _ := g.Key()
	assert.Equal(t, "chosen", key)

	g.Clear()
	require.NoError(t, g.Resolve())
	key, _ = g.Key()
	assert.Equal(t, "from-env", key)
}

type stubValidator struct{ err error }

func (s stubValidator) Validate(ctx context.Context) error { return s.err }

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"credential", &provider.Error{Reason: provider.ReasonCredential, Err: errors.New("401")}, ErrTypeInvalidKey},
		{"network", errors.New("dial tcp: no such host"), ErrTypeNetworkError},
		{"no key", ErrNoCredential, ErrTypeNoKey},
		{"unknown", errors.New("something odd"), ErrTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(context.Background(), stubValidator{err: tt.err})
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.want, valErr.Type)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, ValidateAPIKey(context.Background(), stubValidator{}))
}
