package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoCredential is returned when no credential has been selected.
	ErrNoCredential = errors.New("no API credential selected")
	// ErrSelectionCanceled is returned when the user dismisses the selection dialog.
	ErrSelectionCanceled = errors.New("credential selection canceled")
)

// Selector asks the host environment for a key.
type Selector interface {
	SelectKey(ctx context.Context) (string, error)
}

// DialogSelector prompts for a key with a native password dialog.
type DialogSelector struct{}

// SelectKey opens the dialog and blocks until it is closed.
func (DialogSelector) SelectKey(ctx context.Context) (string, error) {
	key, err := zenity.Entry("Paste your Gemini API key",
		zenity.Title("Select API key"),
		zenity.HideText(),
		zenity.Context(ctx),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrSelectionCanceled
	}
	return key, err
}

// Gate records whether a usable credential is selected. It is safe for
// concurrent use.
type Gate struct {
	selector Selector

	mu  sync.RWMutex
	key string
}

// NewGate creates an empty gate. A nil selector uses DialogSelector.
func NewGate(selector Selector) *Gate {
	if selector == nil {
		selector = DialogSelector{}
	}
	return &Gate{selector: selector}
}

// Selected reports whether a credential is available.
func (g *Gate) Selected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.key != ""
}

// Key returns the selected key or ErrNoCredential.
func (g *Gate) Key() (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.key == "" {
		return "", ErrNoCredential
	}
	return g.key, nil
}

// Use selects key. Blank keys are rejected.
func (g *Gate) Use(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrNoCredential
	}
	g.mu.Lock()
	g.key = key
	g.mu.Unlock()
	return nil
}

// Resolve selects a key from the environment or the encrypted credentials
// file. An already selected key is kept.
func (g *Gate) Resolve() error {
	if g.Selected() {
		return nil
	}
	key, err := GetAPIKey()
	if err != nil {
		return err
	}
	return g.Use(key)
}

// OpenSelection asks the selector for a key and selects it.
func (g *Gate) OpenSelection(ctx context.Context) error {
	key, err := g.selector.SelectKey(ctx)
	if err != nil {
		return err
	}
	if err := g.Use(key); err != nil {
		return err
	}
	log.Info().Msg("API credential selected")
	return nil
}

// Clear forgets the selected key, forcing a new selection. Called when the
// provider rejects the credential.
func (g *Gate) Clear() {
	g.mu.Lock()
	cleared := g.key != ""
	g.key = ""
	g.mu.Unlock()
	if cleared {
		log.Warn().Msg("API credential cleared; selection required")
	}
}
