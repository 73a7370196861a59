package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/cli"
	"github.com/fpang/logonova/internal/export"
	"github.com/fpang/logonova/internal/pipeline"
)

var (
	genInput  brand.ConfigInput
	genCount  int
	genOut    string
	genMotion bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of brand identities and write brand-kit archives",
	Example: `  logonova generate --name Acme --niche "solar drones"
  logonova generate --name Acme --niche "solar drones" --style luxury --color "#b8860b" --quality 2K --count 2 --motion`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genInput.BusinessName, "name", "", "business name (prompted when empty)")
	f.StringVar(&genInput.Niche, "niche", "", "what the business does (prompted when empty)")
	f.StringVar(&genInput.Style, "style", "", "minimalist, modern, playful, luxury or tech")
	f.StringVar(&genInput.PrimaryColor, "color", "", "primary hex color")
	f.StringVar(&genInput.FontFamily, "font", "", "font-sans, font-serif, font-display or font-mono")
	f.StringVar(&genInput.Material, "material", "", "visual finish, e.g. matte_ink or gold_foil")
	f.StringVar(&genInput.AspectRatio, "aspect", "", "1:1, 4:3 or 16:9")
	f.StringVar(&genInput.Quality, "quality", "", "1K, 2K or 4K")
	f.IntVarP(&genCount, "count", "n", 0, "bundles to generate (default from config)")
	f.StringVarP(&genOut, "out", "o", ".", "directory for brand-kit archives")
	f.BoolVar(&genMotion, "motion", false, "also synthesize a motion video for each bundle")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genInput.BusinessName == "" || genInput.Niche == "" {
		p := cli.NewPrompter(os.Stdin, os.Stderr)
		if genInput.BusinessName == "" {
			genInput.BusinessName = p.Ask("Business name", "")
		}
		if genInput.Niche == "" {
			genInput.Niche = p.Ask("Niche", "")
		}
	}
	cfg, err := brand.NewGenerationConfig(genInput)
	if err != nil {
		return err
	}
	count := genCount
	if count == 0 {
		count = appCfg.DefaultBatchSize
	}
	outDir, err := cli.ResolveOutputDirectory(genOut)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newStudio()
	logStartup("generate")

	start := time.Now()
	bundles, err := svc.RunBatch(ctx, cfg, count)
	if err != nil {
		fmt.Fprintln(os.Stderr, pipeline.UserMessage(err))
		return err
	}
	fmt.Fprintln(os.Stderr, cli.BatchLine(cfg.BusinessName, len(bundles), time.Since(start)))

	for _, b := range bundles {
		if genMotion {
			if _, err := svc.SynthesizeMotion(ctx, b.ID); err != nil {
				log.Warn().Err(err).Str("bundle_id", b.ID).Msg("Motion synthesis failed; writing kit without video")
			} else if updated, err := svc.Bundle(b.ID); err == nil {
				b = updated
			}
		}

		path := filepath.Join(outDir, export.KitFilename(b))
		if err := writeKit(path, b); err != nil {
			return err
		}
		fmt.Println(cli.KitLine(path, b))
	}
	return nil
}

func writeKit(path string, b brand.AssetBundle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteKit(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func itoa(i int) string { return strconv.Itoa(i) }
