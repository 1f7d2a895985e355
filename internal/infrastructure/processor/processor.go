package processor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/config"
	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/infrastructure/storage"
)

// DefaultWidths is the derivative set produced for every uploaded image,
// smallest first.
var DefaultWidths = []int{50, 150, 300, 600, 1200}

const defaultQuality = 80

// Variant is one produced derivative file.
type Variant struct {
	Width int
	Path  string
}

// VariantProcessor turns one source image into a set of WebP derivatives,
// one per configured width, stored as "<width>_<baseName>".
type VariantProcessor struct {
	widths  []int
	quality float32
	store   storage.Storage
}

func New(cfg *config.ProcessingConfig, store storage.Storage) *VariantProcessor {
	widths := cfg.Widths
	if len(widths) == 0 {
		zlog.Logger.Warn().Msg("No widths configured, using defaults")
		widths = DefaultWidths
	}
	quality := cfg.Quality
	if quality <= 0 || quality > 100 {
		zlog.Logger.Warn().Int("quality", quality).Msg("Invalid output quality, using default")
		quality = defaultQuality
	}

	zlog.Logger.Info().
		Ints("widths", widths).
		Int("quality", quality).
		Msg("VariantProcessor initialized")

	return &VariantProcessor{
		widths:  widths,
		quality: float32(quality),
		store:   store,
	}
}

func (p *VariantProcessor) Widths() []int {
	return p.widths
}

// NewBaseName returns a fresh unique base name, e.g.
// "3d1f0f6e-9a3c-4d9a-8f57-2f2f6f1e9c11.webp". Callers generate one per
// derivative set; an entity replacing its image gets a new base name so
// stale files can be removed by exact-name match.
func (p *VariantProcessor) NewBaseName() string {
	return uuid.New().String() + ".webp"
}

// Generate writes one derivative per configured width. The source is
// decoded fresh for every width so no transformation state leaks between
// iterations. Files already written are not rolled back when a later
// write fails; the caller decides what to do with the partial set.
func (p *VariantProcessor) Generate(ctx context.Context, src []byte, baseName string) ([]Variant, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty source", domain.ErrImageDecode)
	}

	variants := make([]Variant, 0, len(p.widths))

	for _, width := range p.widths {
		img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
		if err != nil {
			zlog.Logger.Error().Err(err).Str("base_name", baseName).Msg("failed to decode source image")
			return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
		}
		if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
			zlog.Logger.Error().Str("base_name", baseName).Msg("decoded image is empty")
			return nil, fmt.Errorf("%w: decoded image is empty", domain.ErrImageDecode)
		}

		// Height 0 keeps the aspect ratio, no cropping.
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := webp.Encode(&buf, resized, &webp.Options{Quality: p.quality}); err != nil {
			zlog.Logger.Error().Err(err).Int("width", width).Str("base_name", baseName).Msg("failed to encode webp")
			return nil, fmt.Errorf("%w: encode width %d: %v", domain.ErrImageWrite, width, err)
		}

		filename := fmt.Sprintf("%d_%s", width, baseName)
		path, err := p.store.Save(ctx, filename, &buf)
		if err != nil {
			zlog.Logger.Error().Err(err).Str("filename", filename).Msg("failed to save derivative")
			return nil, fmt.Errorf("%w: save %s: %v", domain.ErrImageWrite, filename, err)
		}

		variants = append(variants, Variant{Width: width, Path: path})
	}

	zlog.Logger.Info().
		Str("base_name", baseName).
		Int("variants", len(variants)).
		Msg("derivative set generated")

	return variants, nil
}

// Remove deletes every derivative of baseName, best effort. It returns
// the number of failed deletes; missing files do not count as failures.
func (p *VariantProcessor) Remove(ctx context.Context, baseName string) int {
	if baseName == "" {
		return 0
	}

	failed := 0
	for _, width := range p.widths {
		filename := fmt.Sprintf("%d_%s", width, baseName)
		if err := p.store.Delete(ctx, filename); err != nil {
			zlog.Logger.Warn().Err(err).Str("filename", filename).Msg("failed to delete derivative, continuing")
			failed++
		}
	}

	if failed > 0 {
		zlog.Logger.Warn().
			Str("base_name", baseName).
			Int("failed", failed).
			Msg("derivative set cleanup incomplete")
	}

	return failed
}
