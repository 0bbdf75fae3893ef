package thumbnail

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	CardWidth  = 640
	CardHeight = 360
	AvatarSize = 256

	textScale    = 3
	maxLineChars = 24
	maxLines     = 3
)

var palette = [][2]color.NRGBA{
	{{0x1e, 0x1b, 0x4b, 0xff}, {0x7c, 0x3a, 0xed, 0xff}},
	{{0x0f, 0x17, 0x2a, 0xff}, {0x0e, 0xa5, 0xe9, 0xff}},
	{{0x31, 0x10, 0x2e, 0xff}, {0xdb, 0x27, 0x77, 0xff}},
	{{0x05, 0x2e, 0x16, 0xff}, {0x16, 0xa3, 0x4a, 0xff}},
}

// TitleCard renders a JPEG placeholder thumbnail showing the title and a label
func TitleCard(title, label string) ([]byte, error) {
	colors := palette[pick(title, len(palette))]
	img := gradient(CardWidth, CardHeight, colors[0], colors[1])

	lines := wrap(strings.TrimSpace(title), maxLineChars, maxLines)
	small := image.NewNRGBA(image.Rect(0, 0, CardWidth/textScale, CardHeight/textScale))
	lineHeight := basicfont.Face7x13.Metrics().Height.Ceil() + 2
	top := (small.Bounds().Dy()-lineHeight*len(lines))/2 + lineHeight - 3
	for i, line := range lines {
		drawCentered(small, line, top+i*lineHeight, color.White)
	}
	if label != "" {
		drawCentered(small, strings.ToUpper(label), small.Bounds().Dy()-6, color.NRGBA{0xff, 0xff, 0xff, 0xb0})
	}

	text := imaging.Resize(small, CardWidth, CardHeight, imaging.NearestNeighbor)
	out := imaging.Overlay(img, text, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Avatar decodes an uploaded image, crops it to a centered square and re-encodes it as JPEG
func Avatar(r io.Reader) ([]byte, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	dst := imaging.Fill(src, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}

func gradient(w, h int, from, to color.NRGBA) *image.NRGBA {
	img := imaging.New(w, h, from)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / float64(w+h-2)
			img.SetNRGBA(x, y, color.NRGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 0xff,
			})
		}
	}
	return img
}

func drawCentered(img *image.NRGBA, s string, baseline int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(s).Ceil()
	d.Dot = fixed.P((img.Bounds().Dx()-width)/2, baseline)
	d.DrawString(s)
}

// wrap breaks s on spaces into at most n lines of width chars, ellipsizing the rest
func wrap(s string, width, n int) []string {
	if s == "" {
		return []string{"Untitled"}
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	if len(lines) > n {
		last := []rune(lines[n-1])
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines = append(lines[:n-1], string(last)+"...")
	}
	return lines
}

func pick(s string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(n))
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
