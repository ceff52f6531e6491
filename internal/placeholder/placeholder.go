// Package placeholder turns a text prompt into a deterministic 512x512
// bitmap: a seeded background color with the prompt stamped on top. Equal
// prompts always produce pixel-identical images.
package placeholder

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 512
	canvasHeight = 512

	// Prompts longer than this are truncated before drawing.
	maxTextLen = 50

	fallbackText = "Custom Image"
)

// Seed derives the color seed from a prompt: the sum of its code points
// mod 255, floored to 1 so the background never degenerates to pure black.
func Seed(prompt string) int {
	sum := 0
	for _, r := range prompt {
		sum += int(r)
	}
	seed := sum % 255
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Synthesize renders the placeholder image for a prompt. It is a pure
// function of the prompt string; an empty prompt gets the fallback label.
func Synthesize(prompt string) image.Image {
	seed := Seed(prompt)
	background := color.RGBA{
		R: uint8(seed),
		G: uint8(255 - seed),
		B: uint8((seed * 2) % 255),
		A: 255,
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	for y := 0; y < canvasHeight; y++ {
		for x := 0; x < canvasWidth; x++ {
			img.SetRGBA(x, y, background)
		}
	}

	text := prompt
	if text == "" {
		text = fallbackText
	}
	if runes := []rune(text); len(runes) > maxTextLen {
		text = string(runes[:maxTextLen])
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(20, canvasHeight/2-10),
	}
	drawer.DrawString(text)

	return img
}

// EncodePNG serializes an image to PNG bytes. The stdlib encoder is
// deterministic, so equal images give byte-identical output.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
