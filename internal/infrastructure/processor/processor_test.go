package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"github.com/olekhv/shoplift/internal/config"
	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/infrastructure/storage"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestProcessor(t *testing.T) (*VariantProcessor, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(&config.StorageConfig{
		Type:      "local",
		PublicDir: dir,
		UploadDir: "upload",
	})
	require.NoError(t, err)

	p := New(&config.ProcessingConfig{
		Widths:  []int{50, 150, 300, 600, 1200},
		Quality: 80,
	}, store)

	return p, filepath.Join(dir, "upload")
}

// failingSaveStore delegates to a real store but fails the Nth Save.
type failingSaveStore struct {
	storage.Storage
	failAt int
	saves  int
}

func (s *failingSaveStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	s.saves++
	if s.saves == s.failAt {
		return "", errors.New("disk full")
	}
	return s.Storage.Save(ctx, filename, r)
}

func TestGenerateProducesAllWidths(t *testing.T) {
	p, uploadDir := newTestProcessor(t)
	src := pngBytes(t, 1600, 800)

	baseName := p.NewBaseName()
	require.True(t, strings.HasSuffix(baseName, ".webp"))

	variants, err := p.Generate(context.Background(), src, baseName)
	require.NoError(t, err)
	require.Len(t, variants, 5)

	for i, want := range []int{50, 150, 300, 600, 1200} {
		assert.Equal(t, want, variants[i].Width)

		path := filepath.Join(uploadDir, fmt.Sprintf("%d_%s", want, baseName))
		f, err := os.Open(path)
		require.NoError(t, err, "derivative for width %d must exist", want)

		img, err := webp.Decode(f)
		f.Close()
		require.NoError(t, err, "derivative for width %d must be valid webp", want)

		assert.Equal(t, want, img.Bounds().Dx())
		// 2:1 source, aspect ratio preserved
		assert.Equal(t, want/2, img.Bounds().Dy())
	}
}

func TestGenerateDistinctBaseNames(t *testing.T) {
	p, _ := newTestProcessor(t)

	assert.NotEqual(t, p.NewBaseName(), p.NewBaseName())
}

func TestGenerateRejectsUndecodableInput(t *testing.T) {
	p, uploadDir := newTestProcessor(t)

	_, err := p.Generate(context.Background(), []byte("not an image"), p.NewBaseName())
	require.ErrorIs(t, err, domain.ErrImageDecode)

	entries, readErr := os.ReadDir(uploadDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "decode failure must not leave files behind")
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	p, _ := newTestProcessor(t)

	_, err := p.Generate(context.Background(), nil, p.NewBaseName())
	require.ErrorIs(t, err, domain.ErrImageDecode)
}

func TestRemoveDeletesWholeSet(t *testing.T) {
	p, uploadDir := newTestProcessor(t)
	src := pngBytes(t, 800, 600)

	baseName := p.NewBaseName()
	_, err := p.Generate(context.Background(), src, baseName)
	require.NoError(t, err)

	failed := p.Remove(context.Background(), baseName)
	assert.Zero(t, failed)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveMissingSetIsNotAFailure(t *testing.T) {
	p, _ := newTestProcessor(t)

	assert.Zero(t, p.Remove(context.Background(), "never-written.webp"))
	assert.Zero(t, p.Remove(context.Background(), ""))
}

func TestGenerateOverwritesExistingFiles(t *testing.T) {
	p, uploadDir := newTestProcessor(t)
	baseName := p.NewBaseName()

	_, err := p.Generate(context.Background(), pngBytes(t, 1600, 800), baseName)
	require.NoError(t, err)

	// Same base name, different source: the second run must win.
	_, err = p.Generate(context.Background(), pngBytes(t, 1200, 1200), baseName)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(uploadDir, "300_"+baseName))
	require.NoError(t, err)
	defer f.Close()

	img, err := webp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dy(), "square source must yield square derivative")
}

func TestGeneratePartialWriteFailureKeepsEarlierFiles(t *testing.T) {
	dir := t.TempDir()
	base, err := storage.NewLocalStorage(&config.StorageConfig{
		Type:      "local",
		PublicDir: dir,
		UploadDir: "upload",
	})
	require.NoError(t, err)

	store := &failingSaveStore{Storage: base, failAt: 3}
	p := New(&config.ProcessingConfig{
		Widths:  []int{50, 150, 300, 600, 1200},
		Quality: 80,
	}, store)
	baseName := p.NewBaseName()

	_, err = p.Generate(context.Background(), pngBytes(t, 1600, 800), baseName)
	require.ErrorIs(t, err, domain.ErrImageWrite)

	// Widths written before the failure are not rolled back.
	names := make([]string, 0, 2)
	entries, err := os.ReadDir(filepath.Join(dir, "upload"))
	require.NoError(t, err)
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"50_" + baseName, "150_" + baseName}, names)
}
