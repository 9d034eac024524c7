// Package colormath implements the WCAG color arithmetic behind the theme
// contrast corrector: hex parsing, relative luminance, contrast ratios and
// linear interpolation between colors.
package colormath

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// parseHex accepts 3- or 6-digit hex, with or without a leading '#'.
// Three-digit colors expand each nibble by duplication ("#abc" == "#aabbcc").
func parseHex(hex string) (colorful.Color, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, fmt.Errorf("colormath: invalid hex color %q", hex)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("colormath: invalid hex color %q: %w", hex, err)
	}
	return c, nil
}

// HexToRGB converts a hex color to its 8-bit channels.
func HexToRGB(hex string) (r, g, b uint8, err error) {
	c, err := parseHex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

// RGBToHex formats 8-bit channels as a 6-digit lowercase hex color.
func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RelativeLuminance computes the WCAG relative luminance of an sRGB color.
func RelativeLuminance(r, g, b uint8) float64 {
	return 0.2126*channelLuminance(r) + 0.7152*channelLuminance(g) + 0.0722*channelLuminance(b)
}

// channelLuminance applies the WCAG piecewise gamma expansion to one channel.
func channelLuminance(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between two colors, in the
// range [1, 21]. The ratio is symmetric in its arguments. Either color being
// unparseable is an error.
func ContrastRatio(hexA, hexB string) (float64, error) {
	ra, ga, ba, err := HexToRGB(hexA)
	if err != nil {
		return 0, err
	}
	rb, gb, bb, err := HexToRGB(hexB)
	if err != nil {
		return 0, err
	}
	la := RelativeLuminance(ra, ga, ba)
	lb := RelativeLuminance(rb, gb, bb)
	if lb > la {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05), nil
}

// LerpColor interpolates between two colors per RGB channel. t is clamped to
// [0, 1] and each channel rounds to the nearest 8-bit value. The result is a
// 6-digit lowercase hex color.
func LerpColor(hexA, hexB string, t float64) (string, error) {
	ca, err := parseHex(hexA)
	if err != nil {
		return "", err
	}
	cb, err := parseHex(hexB)
	if err != nil {
		return "", err
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return ca.BlendRgb(cb, t).Clamped().Hex(), nil
}
