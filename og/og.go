// Package og renders social preview images: a title over a diagonal
// gradient with the site name as a caption, 1200x630 PNG.
package og

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1200
	Height = 630

	padding     = 64
	captionSize = 28
	captionGap  = 16
	lineHeight  = 1.2
	maxLines    = 4

	minTitleSize = 32
	maxTitleSize = 64
)

var (
	gradientFrom = color.RGBA{0x0e, 0xa5, 0xe9, 0xff} // #0ea5e9
	gradientTo   = color.RGBA{0x63, 0x66, 0xf1, 0xff} // #6366f1
	titleColor   = color.White
	captionColor = color.NRGBA{0xff, 0xff, 0xff, 0xe6} // white at 0.9
)

// TitleSize returns the font size for a title: min(64, max(32, 800/len))
// where len counts runes.
func TitleSize(title string) float64 {
	n := utf8.RuneCountInString(title)
	if n == 0 {
		return maxTitleSize
	}
	return min(maxTitleSize, max(minTitleSize, 800/float64(n)))
}

// Renderer draws preview images. It is safe for concurrent use.
type Renderer struct {
	caption    string
	title      *opentype.Font
	body       *opentype.Font
	background *image.RGBA
}

// Option configures a Renderer.
type Option func(*Renderer) error

// WithTitleFont replaces the title font with a TrueType or OpenType font.
func WithTitleFont(data []byte) Option {
	return func(r *Renderer) error {
		f, err := opentype.Parse(data)
		if err != nil {
			return fmt.Errorf("og: parse title font: %w", err)
		}
		r.title = f
		return nil
	}
}

// WithFontFile loads the title and caption font from path. An empty path
// keeps the built-in Go fonts.
func WithFontFile(path string) Option {
	return func(r *Renderer) error {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("og: read font: %w", err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return fmt.Errorf("og: parse font %s: %w", path, err)
		}
		r.title, r.body = f, f
		return nil
	}
}

// New returns a Renderer captioning every image with caption.
func New(caption string, opts ...Option) (*Renderer, error) {
	r := &Renderer{caption: caption}
	var err error
	if r.title, err = opentype.Parse(gobold.TTF); err != nil {
		return nil, fmt.Errorf("og: parse built-in font: %w", err)
	}
	if r.body, err = opentype.Parse(goregular.TTF); err != nil {
		return nil, fmt.Errorf("og: parse built-in font: %w", err)
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.background = gradient(Width, Height)
	return r, nil
}

// Render draws the image for title.
func (r *Renderer) Render(title string) (image.Image, error) {
	title = strings.Join(strings.Fields(title), " ")
	size := TitleSize(title)

	titleFace, err := newFace(r.title, size)
	if err != nil {
		return nil, err
	}
	defer titleFace.Close()
	captionFace, err := newFace(r.body, captionSize)
	if err != nil {
		return nil, err
	}
	defer captionFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), r.background, image.Point{}, draw.Src)

	// Lay out bottom-up: caption on the bottom padding, title above it.
	captionLH := captionSize * lineHeight
	captionTop := Height - padding - captionLH
	if r.caption != "" {
		drawLine(img, captionFace, captionColor, r.caption, padding, captionTop, captionLH)
	}

	lines := wrap(titleFace, title, Width-2*padding, maxLines)
	titleLH := size * lineHeight
	top := captionTop - captionGap - float64(len(lines))*titleLH
	for i, line := range lines {
		drawLine(img, titleFace, titleColor, line, padding, top+float64(i)*titleLH, titleLH)
	}
	return img, nil
}

// RenderPNG renders title and encodes it as PNG.
func (r *Renderer) RenderPNG(w io.Writer, title string) error {
	img, err := r.Render(title)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}

// PNG is RenderPNG into a byte slice.
func (r *Renderer) PNG(title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderPNG(&buf, title); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("og: font face: %w", err)
	}
	return face, nil
}

// gradient fills a 135 degree linear gradient, top-left to bottom-right.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	span := float64(w + h - 2)
	for y := range h {
		for x := range w {
			t := float64(x+y) / span
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(gradientFrom.R, gradientTo.R, t),
				G: lerp(gradientFrom.G, gradientTo.G, t),
				B: lerp(gradientFrom.B, gradientTo.B, t),
				A: 0xff,
			})
		}
	}
	return img
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// drawLine draws s in a line box of height lh whose top edge is at top.
func drawLine(dst draw.Image, face font.Face, c color.Color, s string, x int, top, lh float64) {
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	baseline := top + (lh-(ascent+descent))/2 + ascent
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(s)
}

// wrap breaks text into at most limit lines no wider than maxWidth. Words
// wider than a line, and scripts written without spaces, break between
// runes. Overflow is cut with an ellipsis.
func wrap(face font.Face, text string, maxWidth, limit int) []string {
	fits := func(s string) bool {
		return font.MeasureString(face, s).Ceil() <= maxWidth
	}
	var lines []string
	var cur string
	push := func() {
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
	}
	for _, word := range tokens(text) {
		candidate := word
		if cur != "" && !isCJK(word) {
			candidate = cur + " " + word
		} else if cur != "" {
			candidate = cur + word
		}
		if fits(candidate) {
			cur = candidate
			continue
		}
		push()
		for !fits(word) {
			var head string
			for _, r := range word {
				if !fits(head + string(r)) {
					break
				}
				head += string(r)
			}
			if head == "" {
				_, n := utf8.DecodeRuneInString(word)
				head = word[:n]
			}
			lines = append(lines, head)
			word = word[len(head):]
		}
		cur = word
	}
	push()

	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[limit-1]
		for last != "" && !fits(last+"…") {
			_, n := utf8.DecodeLastRuneInString(last)
			last = last[:len(last)-n]
		}
		lines[limit-1] = strings.TrimRight(last, " ") + "…"
	}
	return lines
}

// tokens splits on spaces and between CJK characters, so titles in scripts
// without word separators can still wrap.
func tokens(text string) []string {
	var out []string
	for _, field := range strings.Fields(text) {
		var run strings.Builder
		for _, r := range field {
			if isCJKRune(r) {
				if run.Len() > 0 {
					out = append(out, run.String())
					run.Reset()
				}
				out = append(out, string(r))
				continue
			}
			run.WriteRune(r)
		}
		if run.Len() > 0 {
			out = append(out, run.String())
		}
	}
	return out
}

func isCJK(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isCJKRune(r)
}

func isCJKRune(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r)
}
