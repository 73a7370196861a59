package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/fpang/logonova/internal/brand"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard.
const zipMethodZstd uint16 = 93

type kitEntry struct {
	name string
	data []byte
}

// WriteKit writes a zstd-compressed ZIP with the mark, moodboard images, the
// motion video when attached, and the blueprint in JSON and YAML.
func WriteKit(w io.Writer, b brand.AssetBundle) error {
	entries, err := kitEntries(b)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(12)))
	})

	modified := b.CreatedAt
	if modified.IsZero() {
		modified = time.Now()
	}
	total := 0
	for _, e := range entries {
		header := &zip.FileHeader{
			Name:     e.name,
			Method:   zipMethodZstd,
			Modified: modified,
		}
		writer, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create ZIP entry for %s: %w", e.name, err)
		}
		if _, err := writer.Write(e.data); err != nil {
			return fmt.Errorf("write to ZIP for %s: %w", e.name, err)
		}
		total += len(e.data)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close ZIP writer: %w", err)
	}

	log.Debug().
		Str("bundle_id", b.ID).
		Int("entries", len(entries)).
		Int("uncompressed_bytes", total).
		Msg("Brand kit written")
	return nil
}

// Kit returns the brand kit archive as bytes.
func Kit(b brand.AssetBundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteKit(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func kitEntries(b brand.AssetBundle) ([]kitEntry, error) {
	if b.PrimaryImage.Empty() {
		return nil, fmt.Errorf("bundle %s has no primary image", b.ID)
	}
	entries := []kitEntry{{name: "mark" + b.PrimaryImage.Extension(), data: b.PrimaryImage.Data}}
	for i, m := range b.Moodboard {
		if m.Empty() {
			continue
		}
		entries = append(entries, kitEntry{name: fmt.Sprintf("moodboard-%d%s", i+1, m.Extension()), data: m.Data})
	}
	if b.HasMotion() {
		entries = append(entries, kitEntry{name: "motion" + b.MotionAsset.Extension(), data: b.MotionAsset.Data})
	}

	bp := NewBlueprint(b)
	for _, f := range []Format{FormatJSON, FormatYAML} {
		data, err := bp.Encode(f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, kitEntry{name: "blueprint." + string(f), data: data})
	}
	return entries, nil
}
