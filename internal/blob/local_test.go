package blob

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSave(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir)
	require.NoError(t, err)

	locator, err := l.Save(context.Background(), strings.NewReader("image-bytes"), "solution.png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(locator, PublicPrefix+"/"), "locator %q must live under %s", locator, PublicPrefix)
	assert.True(t, strings.HasSuffix(locator, "_solution.png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(locator)))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestLocalSaveNeutralizesTraversal(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir)
	require.NoError(t, err)

	locator, err := l.Save(context.Background(), strings.NewReader("x"), "../../../etc/passwd")
	require.NoError(t, err)

	assert.NotContains(t, locator, "..")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_passwd"))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestNormalizeImageAcceptsPNG(t *testing.T) {
	r, err := NormalizeImage(bytes.NewReader(pngBytes(t, 64, 48)))
	require.NoError(t, err)

	img, format, err := image.Decode(r)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestNormalizeImageDownscalesOversized(t *testing.T) {
	r, err := NormalizeImage(bytes.NewReader(pngBytes(t, maxImageDim*2, 100)))
	require.NoError(t, err)

	img, _, err := image.Decode(r)
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), maxImageDim)
	assert.LessOrEqual(t, img.Bounds().Dy(), maxImageDim)
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	_, err := NormalizeImage(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
