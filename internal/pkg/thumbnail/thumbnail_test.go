package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleCardIsJPEG(t *testing.T) {
	data, err := TitleCard("Neon city at dusk", "short")
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, CardWidth, img.Bounds().Dx())
	assert.Equal(t, CardHeight, img.Bounds().Dy())
}

func TestTitleCardEmptyTitle(t *testing.T) {
	data, err := TitleCard("", "")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestAvatarCropsToSquare(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 800; x++ {
			src.Set(x, y, color.RGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Avatar(&buf)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, img.Bounds().Dx())
	assert.Equal(t, AvatarSize, img.Bounds().Dy())
}

func TestAvatarRejectsNonImage(t *testing.T) {
	_, err := Avatar(strings.NewReader("definitely not an image"))
	assert.Error(t, err)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"Untitled"}, wrap("", 10, 2))
	assert.Equal(t, []string{"hello world"}, wrap("hello world", 24, 3))
	assert.Equal(t, []string{"aaaa", "bbbb"}, wrap("aaaa bbbb", 5, 3))

	lines := wrap("one two three four five six", 5, 2)
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "..."))
}
