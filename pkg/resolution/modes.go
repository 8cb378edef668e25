package resolution

import (
	"fmt"
	"math"
)

// Mode calculators. Each one is a pure function from a request snapshot to a
// base result; conflict annotation happens afterwards in the detector.

// megapixelScale converts a megapixel target to a pixel area.
const megapixelScale = 1_000_000

// defaultMegapixels is the target used when no dimension input is enabled.
const defaultMegapixels = 1.0

// arLabel formats an aspect ratio the way it is shown to users, e.g. "16:9"
// or "2.39:1".
func arLabel(ar ResolvedAspectRatio) string {
	return fmt.Sprintf("%g:%g", ar.AspectW, ar.AspectH)
}

// roundDim rounds a derived dimension half away from zero, clamped to one
// pixel. Base dimensions are always positive; a microscopic megapixel target
// or an extreme aspect ratio must not round a side down to zero.
func roundDim(v float64) int {
	if d := roundHalfAway(v); d >= 1 {
		return d
	}
	return 1
}

// dimsFromArea derives width and height whose product approximates area while
// preserving the given aspect ratio. Intermediates round half away from zero.
func dimsFromArea(area float64, ar ResolvedAspectRatio) (int, int) {
	w := roundDim(math.Sqrt(area * ar.Ratio))
	h := roundDim(math.Sqrt(area / ar.Ratio))
	return w, h
}

// ratioInputTag maps the winning ratio source back to the input that supplied
// it, for active-input reporting.
func ratioInputTag(ar ResolvedAspectRatio, req Request) InputTag {
	switch ar.Source {
	case RatioFromCustom:
		return InputCustomRatio
	case RatioFromImage:
		return InputImageMode
	case RatioFallback:
		if req.CustomRatio.Enabled {
			return InputCustomRatio
		}
		return InputDropdown
	default:
		return InputDropdown
	}
}

// calcExactDims uses the connected image's dimensions verbatim, ignoring
// every dimension toggle. With no image available it degrades to the
// defaults mode; that is the documented fallback, not an error.
func calcExactDims(req Request) *Result {
	if req.Image == nil {
		return calcDefaults(req)
	}

	return &Result{
		Mode:         ModeExactDims,
		Priority:     1,
		BaseW:        req.Image.Width,
		BaseH:        req.Image.Height,
		AR:           derivedRatio(req.Image.Width, req.Image.Height, RatioDerived),
		Source:       SourceImage,
		ActiveInputs: []InputTag{InputImageMode},
		Description:  fmt.Sprintf("Using image dimensions %dx%d verbatim", req.Image.Width, req.Image.Height),
	}
}

// calcTripleScalar handles width+height+megapixel: the aspect ratio implied
// by width:height is preserved while both dimensions are rescaled uniformly
// to hit the megapixel target.
func calcTripleScalar(req Request) *Result {
	inW := roundHalfAway(req.Width.Value)
	inH := roundHalfAway(req.Height.Value)
	ar := derivedRatio(inW, inH, RatioDerived)

	area := req.Megapixel.Value * megapixelScale
	w, h := dimsFromArea(area, ar)

	return &Result{
		Mode:         ModeMPScalarWithAR,
		Priority:     2,
		BaseW:        w,
		BaseH:        h,
		AR:           ar,
		Source:       SourceWidgetsMPComputed,
		ActiveInputs: []InputTag{InputWidth, InputHeight, InputMegapixel},
		Description: fmt.Sprintf("Scaled %dx%d to %.2f MP preserving %s",
			inW, inH, req.Megapixel.Value, arLabel(ar)),
	}
}

// calcWidthHeight uses both explicit dimensions directly.
func calcWidthHeight(req Request) *Result {
	w := roundHalfAway(req.Width.Value)
	h := roundHalfAway(req.Height.Value)

	return &Result{
		Mode:         ModeWidthHeightExplicit,
		Priority:     3,
		BaseW:        w,
		BaseH:        h,
		AR:           derivedRatio(w, h, RatioDerived),
		Source:       SourceWidgetsExplicit,
		ActiveInputs: []InputTag{InputWidth, InputHeight},
		Description:  fmt.Sprintf("Using explicit dimensions %dx%d", w, h),
	}
}

// calcMPWidth derives height from the megapixel target at a fixed width.
func calcMPWidth(req Request) *Result {
	w := roundHalfAway(req.Width.Value)
	h := roundDim(req.Megapixel.Value * megapixelScale / float64(w))

	return &Result{
		Mode:         ModeMPWidthExplicit,
		Priority:     3,
		BaseW:        w,
		BaseH:        h,
		AR:           derivedRatio(w, h, RatioDerived),
		Source:       SourceWidgetsMPComputed,
		ActiveInputs: []InputTag{InputMegapixel, InputWidth},
		Description:  fmt.Sprintf("Computed height %d from %.2f MP at width %d", h, req.Megapixel.Value, w),
	}
}

// calcMPHeight derives width from the megapixel target at a fixed height.
func calcMPHeight(req Request) *Result {
	h := roundHalfAway(req.Height.Value)
	w := roundDim(req.Megapixel.Value * megapixelScale / float64(h))

	return &Result{
		Mode:         ModeMPHeightExplicit,
		Priority:     3,
		BaseW:        w,
		BaseH:        h,
		AR:           derivedRatio(w, h, RatioDerived),
		Source:       SourceWidgetsMPComputed,
		ActiveInputs: []InputTag{InputMegapixel, InputHeight},
		Description:  fmt.Sprintf("Computed width %d from %.2f MP at height %d", w, req.Megapixel.Value, h),
	}
}

// calcAROnly combines the image-derived aspect ratio with whichever single
// dimension input is enabled (width, then height, then megapixel), or a 1.0
// megapixel target when none is. With no image available it degrades to the
// defaults mode.
func calcAROnly(req Request) *Result {
	if req.Image == nil {
		return calcDefaults(req)
	}

	ar := derivedRatio(req.Image.Width, req.Image.Height, RatioFromImage)
	res := &Result{
		Mode:     ModeAROnly,
		Priority: 4,
		AR:       ar,
		Source:   SourceImageAR,
	}

	switch {
	case req.Width.Enabled:
		res.BaseW = roundHalfAway(req.Width.Value)
		res.BaseH = roundDim(float64(res.BaseW) / ar.Ratio)
		res.ActiveInputs = []InputTag{InputImageMode, InputWidth}
		res.Description = fmt.Sprintf("Image AR %s at width %d", arLabel(ar), res.BaseW)
	case req.Height.Enabled:
		res.BaseH = roundHalfAway(req.Height.Value)
		res.BaseW = roundDim(float64(res.BaseH) * ar.Ratio)
		res.ActiveInputs = []InputTag{InputImageMode, InputHeight}
		res.Description = fmt.Sprintf("Image AR %s at height %d", arLabel(ar), res.BaseH)
	case req.Megapixel.Enabled:
		res.BaseW, res.BaseH = dimsFromArea(req.Megapixel.Value*megapixelScale, ar)
		res.ActiveInputs = []InputTag{InputImageMode, InputMegapixel}
		res.Description = fmt.Sprintf("Image AR %s at %.2f MP", arLabel(ar), req.Megapixel.Value)
	default:
		res.BaseW, res.BaseH = dimsFromArea(defaultMegapixels*megapixelScale, ar)
		res.ActiveInputs = []InputTag{InputImageMode}
		res.Description = fmt.Sprintf("Image AR %s at default %.1f MP", arLabel(ar), defaultMegapixels)
	}
	return res
}

// calcSingleWithAR combines the one enabled dimension input with the active
// aspect ratio from the sub-resolver.
func calcSingleWithAR(req Request) *Result {
	ar := resolveActiveRatio(req)
	res := &Result{
		Priority: 5,
		AR:       ar,
		Source:   SourceWidgetWithAR,
	}

	switch {
	case req.Width.Enabled:
		res.Mode = ModeWidthWithAR
		res.BaseW = roundHalfAway(req.Width.Value)
		res.BaseH = roundDim(float64(res.BaseW) / ar.Ratio)
		res.ActiveInputs = []InputTag{InputWidth, ratioInputTag(ar, req)}
		res.Description = fmt.Sprintf("Computed height %d from width %d at %s", res.BaseH, res.BaseW, arLabel(ar))
	case req.Height.Enabled:
		res.Mode = ModeHeightWithAR
		res.BaseH = roundHalfAway(req.Height.Value)
		res.BaseW = roundDim(float64(res.BaseH) * ar.Ratio)
		res.ActiveInputs = []InputTag{InputHeight, ratioInputTag(ar, req)}
		res.Description = fmt.Sprintf("Computed width %d from height %d at %s", res.BaseW, res.BaseH, arLabel(ar))
	default:
		res.Mode = ModeMPWithAR
		res.BaseW, res.BaseH = dimsFromArea(req.Megapixel.Value*megapixelScale, ar)
		res.ActiveInputs = []InputTag{InputMegapixel, ratioInputTag(ar, req)}
		res.Description = fmt.Sprintf("Computed %dx%d from %.2f MP at %s", res.BaseW, res.BaseH, req.Megapixel.Value, arLabel(ar))
	}
	return res
}

// calcDefaults is the catch-all: a 1.0 megapixel target at the active aspect
// ratio.
func calcDefaults(req Request) *Result {
	ar := resolveActiveRatio(req)
	w, h := dimsFromArea(defaultMegapixels*megapixelScale, ar)

	return &Result{
		Mode:         ModeDefaultsWithAR,
		Priority:     6,
		BaseW:        w,
		BaseH:        h,
		AR:           ar,
		Source:       SourceDefaults,
		ActiveInputs: []InputTag{ratioInputTag(ar, req)},
		Description:  fmt.Sprintf("Defaulted to %dx%d (%.1f MP at %s)", w, h, defaultMegapixels, arLabel(ar)),
	}
}
