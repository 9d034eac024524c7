package colormath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexToRGB_SixDigit(t *testing.T) {
	r, g, b, err := HexToRGB("#1e90ff")
	require.NoError(t, err)
	require.Equal(t, uint8(0x1e), r)
	require.Equal(t, uint8(0x90), g)
	require.Equal(t, uint8(0xff), b)
}

func TestHexToRGB_ThreeDigitExpandsNibbles(t *testing.T) {
	r, g, b, err := HexToRGB("#abc")
	require.NoError(t, err)
	require.Equal(t, uint8(0xaa), r)
	require.Equal(t, uint8(0xbb), g)
	require.Equal(t, uint8(0xcc), b)
}

func TestHexToRGB_NoHashPrefix(t *testing.T) {
	r, g, b, err := HexToRGB("ffffff")
	require.NoError(t, err)
	require.Equal(t, uint8(255), r)
	require.Equal(t, uint8(255), g)
	require.Equal(t, uint8(255), b)
}

func TestHexToRGB_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#zzzzzz", "not-a-color"} {
		_, _, _, err := HexToRGB(in)
		require.Error(t, err, "input=%q", in)
	}
}

func TestHexToRGB_RoundTrip(t *testing.T) {
	for _, in := range []string{"#000000", "#ffffff", "#aabbcc", "#1e90ff", "#b08d57"} {
		r, g, b, err := HexToRGB(in)
		require.NoError(t, err)
		require.Equal(t, in, RGBToHex(r, g, b))

		// A second trip through the same conversion must be stable.
		r2, g2, b2, err := HexToRGB(RGBToHex(r, g, b))
		require.NoError(t, err)
		require.Equal(t, [3]uint8{r, g, b}, [3]uint8{r2, g2, b2})
	}
}

func TestRelativeLuminance_Extremes(t *testing.T) {
	require.InDelta(t, 0.0, RelativeLuminance(0, 0, 0), 1e-9)
	require.InDelta(t, 1.0, RelativeLuminance(255, 255, 255), 1e-9)
}

func TestContrastRatio_BlackOnWhite(t *testing.T) {
	ratio, err := ContrastRatio("#000000", "#ffffff")
	require.NoError(t, err)
	require.InDelta(t, 21.0, ratio, 1e-9)
}

func TestContrastRatio_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"#000000", "#ffffff"},
		{"#777777", "#ffffff"},
		{"#b08d57", "#1a1a1a"},
		{"#abc", "#f00"},
	}
	for _, p := range pairs {
		ab, err := ContrastRatio(p[0], p[1])
		require.NoError(t, err)
		ba, err := ContrastRatio(p[1], p[0])
		require.NoError(t, err)
		require.InDelta(t, ab, ba, 1e-12, "pair=%v", p)
	}
}

func TestContrastRatio_SameColorIsOne(t *testing.T) {
	ratio, err := ContrastRatio("#808080", "#808080")
	require.NoError(t, err)
	require.InDelta(t, 1.0, ratio, 1e-9)
}

func TestContrastRatio_UnparseableInput(t *testing.T) {
	_, err := ContrastRatio("nope", "#ffffff")
	require.Error(t, err)
	_, err = ContrastRatio("#ffffff", "nope")
	require.Error(t, err)
}

func TestLerpColor_Endpoints(t *testing.T) {
	got, err := LerpColor("#102030", "#ffffff", 0)
	require.NoError(t, err)
	require.Equal(t, "#102030", got)

	got, err = LerpColor("#102030", "#ffffff", 1)
	require.NoError(t, err)
	require.Equal(t, "#ffffff", got)
}

func TestLerpColor_RoundsToNearest(t *testing.T) {
	// 119 * 0.94 = 111.86, which must round up to 112 (0x70).
	got, err := LerpColor("#777777", "#000000", 0.06)
	require.NoError(t, err)
	require.Equal(t, "#707070", got)
}

func TestLerpColor_ClampsT(t *testing.T) {
	got, err := LerpColor("#404040", "#000000", 1.5)
	require.NoError(t, err)
	require.Equal(t, "#000000", got)

	got, err = LerpColor("#404040", "#000000", -0.5)
	require.NoError(t, err)
	require.Equal(t, "#404040", got)
}

func TestLerpColor_InvalidInput(t *testing.T) {
	_, err := LerpColor("bad", "#000000", 0.5)
	require.Error(t, err)
	_, err = LerpColor("#000000", "bad", 0.5)
	require.Error(t, err)
}
