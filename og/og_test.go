package og

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestTitleSize(t *testing.T) {
	require.Equal(t, 64.0, TitleSize(""))
	require.Equal(t, 64.0, TitleSize("Short"))
	require.Equal(t, 40.0, TitleSize(strings.Repeat("x", 20)))
	require.Equal(t, 32.0, TitleSize(strings.Repeat("x", 200)))
	require.Equal(t, 40.0, TitleSize(strings.Repeat("字", 20)), "size counts runes, not bytes")
}

func TestRender_Dimensions(t *testing.T) {
	r, err := New("xiwu.io")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderPNG(&buf, "Hello, world"))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, Width, img.Bounds().Dx())
	require.Equal(t, Height, img.Bounds().Dy())
}

func TestRender_GradientCorners(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	img, err := r.Render("")
	require.NoError(t, err)

	tl := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	br := color.RGBAModel.Convert(img.At(Width-1, Height-1)).(color.RGBA)
	require.Equal(t, gradientFrom, tl)
	require.Equal(t, gradientTo, br)
}

func TestRender_DrawsText(t *testing.T) {
	r, err := New("caption")
	require.NoError(t, err)
	plain := gradient(Width, Height)
	img, err := r.Render("A title long enough to wrap across more than one line of the card")
	require.NoError(t, err)

	changed := 0
	for y := 0; y < Height; y += 2 {
		for x := 0; x < Width; x += 2 {
			if color.RGBAModel.Convert(img.At(x, y)) != color.RGBAModel.Convert(plain.At(x, y)) {
				changed++
			}
		}
	}
	require.Positive(t, changed)
	// Nothing is drawn into the top padding.
	for x := 0; x < Width; x++ {
		require.Equal(t, color.RGBAModel.Convert(plain.At(x, 10)), color.RGBAModel.Convert(img.At(x, 10)))
	}
}

func TestWrap(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	face, err := newFace(r.title, 64)
	require.NoError(t, err)
	defer face.Close()

	lines := wrap(face, "one two three", Width, maxLines)
	require.Equal(t, []string{"one two three"}, lines)

	long := strings.Repeat("word ", 200)
	lines = wrap(face, long, Width-2*padding, maxLines)
	require.Len(t, lines, maxLines)
	require.True(t, strings.HasSuffix(lines[maxLines-1], "…"))

	lines = wrap(face, strings.Repeat("x", 300), Width-2*padding, 10)
	require.Greater(t, len(lines), 1, "unbroken words break between runes")
}

func TestTokens(t *testing.T) {
	require.Equal(t, []string{"Go", "语", "言", "blog"}, tokens("Go语言 blog"))
}

func TestWithTitleFont(t *testing.T) {
	_, err := New("x", WithTitleFont(goregular.TTF))
	require.NoError(t, err)

	_, err = New("x", WithTitleFont([]byte("not a font")))
	require.Error(t, err)

	_, err = New("x", WithFontFile("/does/not/exist.ttf"))
	require.Error(t, err)

	_, err = New("x", WithFontFile(""))
	require.NoError(t, err)
}
