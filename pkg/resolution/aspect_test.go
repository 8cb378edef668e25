package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRatioText(t *testing.T) {
	t.Run("Integers", func(t *testing.T) {
		ar, ok := parseRatioText("16:9", RatioFromCustom)
		require.True(t, ok)
		assert.Equal(t, float64(16), ar.AspectW)
		assert.Equal(t, float64(9), ar.AspectH)
		assert.InDelta(t, 16.0/9.0, ar.Ratio, 1e-9)
		assert.Equal(t, RatioFromCustom, ar.Source)
	})

	t.Run("CinemaRatio", func(t *testing.T) {
		ar, ok := parseRatioText("1.85:1", RatioFromCustom)
		require.True(t, ok)
		assert.Equal(t, 1.85, ar.AspectW)
		assert.Equal(t, 1.0, ar.AspectH)
		assert.InDelta(t, 1.85, ar.Ratio, 1e-9)
	})

	t.Run("Whitespace", func(t *testing.T) {
		ar, ok := parseRatioText("  2.39 : 1 ", RatioFromCustom)
		require.True(t, ok)
		assert.Equal(t, 2.39, ar.AspectW)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, ok := parseRatioText("garbage", RatioFromCustom)
		assert.False(t, ok)
	})

	t.Run("MissingSeparator", func(t *testing.T) {
		_, ok := parseRatioText("169", RatioFromCustom)
		assert.False(t, ok)
	})

	t.Run("ZeroDenominator", func(t *testing.T) {
		_, ok := parseRatioText("16:0", RatioFromCustom)
		assert.False(t, ok)
	})

	t.Run("NegativeNumerator", func(t *testing.T) {
		_, ok := parseRatioText("-4:3", RatioFromCustom)
		assert.False(t, ok)
	})
}

func TestParseDropdownLabel(t *testing.T) {
	t.Run("LabelWithDescription", func(t *testing.T) {
		ar, ok := parseDropdownLabel("21:9 (Epic Ultrawide)")
		require.True(t, ok)
		assert.Equal(t, float64(21), ar.AspectW)
		assert.Equal(t, float64(9), ar.AspectH)
		assert.Equal(t, RatioFromDropdown, ar.Source)
	})

	t.Run("BareRatio", func(t *testing.T) {
		ar, ok := parseDropdownLabel("16:9")
		require.True(t, ok)
		assert.Equal(t, float64(16), ar.AspectW)
	})

	t.Run("NoPattern", func(t *testing.T) {
		_, ok := parseDropdownLabel("Panorama")
		assert.False(t, ok)
	})
}

func TestResolveActiveRatio(t *testing.T) {
	t.Run("CustomWins", func(t *testing.T) {
		req := Request{
			CustomRatio:   CustomRatioInput{Enabled: true, Text: "1.85:1"},
			ImageMode:     ImageModeInput{Enabled: true, Mode: ImageModeAROnly},
			DropdownRatio: "16:9",
			Image:         &ImageDimensions{Width: 1024, Height: 1024},
		}

		ar := resolveActiveRatio(req)
		assert.Equal(t, RatioFromCustom, ar.Source)
		assert.InDelta(t, 1.85, ar.Ratio, 1e-9)
	})

	t.Run("CustomGarbageFallsBackTo16x9", func(t *testing.T) {
		req := Request{
			CustomRatio:   CustomRatioInput{Enabled: true, Text: "garbage"},
			DropdownRatio: "21:9",
		}

		// Parse failure recovers locally, it does not promote the dropdown.
		ar := resolveActiveRatio(req)
		assert.Equal(t, RatioFallback, ar.Source)
		assert.Equal(t, float64(16), ar.AspectW)
		assert.Equal(t, float64(9), ar.AspectH)
	})

	t.Run("ImageARBeatsDropdown", func(t *testing.T) {
		req := Request{
			ImageMode:     ImageModeInput{Enabled: true, Mode: ImageModeAROnly},
			DropdownRatio: "21:9",
			Image:         &ImageDimensions{Width: 2560, Height: 1440},
		}

		ar := resolveActiveRatio(req)
		assert.Equal(t, RatioFromImage, ar.Source)
		assert.Equal(t, float64(16), ar.AspectW)
		assert.Equal(t, float64(9), ar.AspectH)
	})

	t.Run("ImageARSkippedInExactMode", func(t *testing.T) {
		req := Request{
			ImageMode:     ImageModeInput{Enabled: true, Mode: ImageModeExactDims},
			DropdownRatio: "21:9",
			Image:         &ImageDimensions{Width: 2560, Height: 1440},
		}

		ar := resolveActiveRatio(req)
		assert.Equal(t, RatioFromDropdown, ar.Source)
	})

	t.Run("DropdownDefault", func(t *testing.T) {
		req := Request{DropdownRatio: "3:4 (Golden Ratio)"}

		ar := resolveActiveRatio(req)
		assert.Equal(t, RatioFromDropdown, ar.Source)
		assert.Equal(t, float64(3), ar.AspectW)
		assert.Equal(t, float64(4), ar.AspectH)
	})

	t.Run("UnparsableDropdownFallsBack", func(t *testing.T) {
		req := Request{DropdownRatio: "no ratio here"}

		ar := resolveActiveRatio(req)
		assert.Equal(t, RatioFallback, ar.Source)
		assert.Equal(t, float64(16), ar.AspectW)
	})
}
