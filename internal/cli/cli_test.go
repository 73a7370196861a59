package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/logonova/internal/auth"
	"github.com/fpang/logonova/internal/brand"
)

func TestElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{400 * time.Millisecond, "0.4s"},
		{5 * time.Second, "0:05"},
		{2*time.Minute + 3*time.Second, "2:03"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
		{time.Hour + 7*time.Second, "1:00:07"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Elapsed(tt.in), tt.in.String())
	}
}

func TestBatchLine(t *testing.T) {
	assert.Equal(t, "Generated 4 brand identities for Acme in 0:12", BatchLine("Acme", 4, 12*time.Second))
	assert.Equal(t, "Generated 1 brand identity for Acme in 0.2s", BatchLine("Acme", 1, 200*time.Millisecond))
}

func TestKitLine(t *testing.T) {
	b := brand.AssetBundle{Variation: 2, Strategy: brand.Strategy{Slogan: "Fly higher"}}
	assert.Equal(t, `#3  kits/acme.zip  "Fly higher"`, KitLine("kits/acme.zip", b))

	b.Moodboard = []brand.Media{{Data: []byte{1}}, {Data: []byte{2}}}
	b.MotionAsset = &brand.MotionAsset{Media: brand.Media{Data: []byte("mp4"), MIMEType: "video/mp4"}}
	assert.Equal(t, `#3  kits/acme.zip  "Fly higher"  [2 moodboard, motion]`, KitLine("kits/acme.zip", b))
}

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  Acme  \n\n"), &out)

	assert.Equal(t, "Acme", p.Ask("Business name", ""))
	assert.Equal(t, "tech", p.Ask("Style", "tech"))
	assert.Equal(t, "fallback", p.Ask("Niche", "fallback"))
	assert.Contains(t, out.String(), "Style [tech]: ")
}

func TestResolveOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kits", "acme")
	got, err := ResolveOutputDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = ResolveOutputDirectory(file)
	assert.Error(t, err)
}

func TestValidationMessage(t *testing.T) {
	assert.Equal(t, "API key is valid.", ValidationMessage(nil))
	assert.Contains(t, ValidationMessage(&auth.ValidationError{Type: auth.ErrTypeNoKey}), "LOGONOVA_API_KEY")
	assert.Contains(t, ValidationMessage(&auth.ValidationError{Type: auth.ErrTypeInvalidKey}), "rejected")
	assert.Contains(t, ValidationMessage(errors.New("boom")), "boom")
}
