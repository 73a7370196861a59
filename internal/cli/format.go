// Package cli holds terminal helpers shared by the logonova commands.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fpang/logonova/internal/brand"
)

// Elapsed renders d as M:SS, or H:MM:SS from one hour. Runs shorter than a
// second show tenths ("0.4s") since offline batches finish that fast.
func Elapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	secs := int(d.Round(time.Second) / time.Second)
	if h := secs / 3600; h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, secs%3600/60, secs%60)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// BatchLine summarizes a finished batch for the terminal.
func BatchLine(business string, bundles int, d time.Duration) string {
	noun := "identities"
	if bundles == 1 {
		noun = "identity"
	}
	return fmt.Sprintf("Generated %d brand %s for %s in %s", bundles, noun, business, Elapsed(d))
}

// KitLine describes one written brand kit: where it went, its variation and
// slogan, and which optional assets it carries.
func KitLine(path string, b brand.AssetBundle) string {
	var extras []string
	if n := len(b.Moodboard); n > 0 {
		extras = append(extras, fmt.Sprintf("%d moodboard", n))
	}
	if b.HasMotion() {
		extras = append(extras, "motion")
	}
	line := fmt.Sprintf("#%d  %s  %q", b.Variation+1, path, b.Strategy.Slogan)
	if len(extras) > 0 {
		line += "  [" + strings.Join(extras, ", ") + "]"
	}
	return line
}
