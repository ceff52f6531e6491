package placeholder

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   int
	}{
		{"empty floors to one", "", 1},
		{"single char", "A", 65},
		{"wraps at 255", string(rune(255)), 1}, // 255 % 255 == 0 -> floored
		{"sunset", "sunset", 674 % 255}, // code points sum to 674
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Seed(tt.prompt))
		})
	}
}

func TestSeed_AlwaysInRange(t *testing.T) {
	prompts := []string{"", "a", "sunset", strings.Repeat("z", 1000), "日本語のプロンプト", "\x00\x00"}
	for _, p := range prompts {
		seed := Seed(p)
		assert.GreaterOrEqual(t, seed, 1, "prompt %q", p)
		assert.LessOrEqual(t, seed, 255, "prompt %q", p)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	a, err := EncodePNG(Synthesize("a calm landscape at sunset"))
	require.NoError(t, err)
	b, err := EncodePNG(Synthesize("a calm landscape at sunset"))
	require.NoError(t, err)

	assert.Equal(t, a, b, "equal prompts must give byte-identical PNGs")
}

func TestSynthesize_BackgroundColor(t *testing.T) {
	prompt := "sunset"
	seed := Seed(prompt)
	img := Synthesize(prompt)

	want := color.RGBA{R: uint8(seed), G: uint8(255 - seed), B: uint8((seed * 2) % 255), A: 255}
	// Probe a corner well away from the text stamp.
	assert.Equal(t, want, img.At(0, 0))
	assert.Equal(t, want, img.At(511, 511))
}

func TestSynthesize_CanvasSize(t *testing.T) {
	bounds := Synthesize("x").Bounds()
	assert.Equal(t, 512, bounds.Dx())
	assert.Equal(t, 512, bounds.Dy())
}

func TestSynthesize_EmptyPromptUsesFallback(t *testing.T) {
	// The fallback label differs from any literal empty drawing, so the
	// empty-prompt image must not equal a blank canvas of the same seed.
	empty, err := EncodePNG(Synthesize(""))
	require.NoError(t, err)
	labeled, err := EncodePNG(Synthesize(fallbackText))
	require.NoError(t, err)

	// Seeds differ, so images differ; just make sure both render.
	assert.NotEmpty(t, empty)
	assert.NotEmpty(t, labeled)
}

func TestSynthesize_LongPromptTruncated(t *testing.T) {
	long := strings.Repeat("a", 200)
	short := strings.Repeat("a", 200) + "different tail ignored"

	// Same first 50 chars but different seeds, so only verify no panic and
	// deterministic output for each input.
	a1, err := EncodePNG(Synthesize(long))
	require.NoError(t, err)
	a2, err := EncodePNG(Synthesize(long))
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	_, err = EncodePNG(Synthesize(short))
	require.NoError(t, err)
}
