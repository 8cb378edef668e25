package resolution

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dixieflatline76/SmartRes/util/log"
)

// fallbackRatio is used whenever a ratio source cannot be parsed.
// Malformed ratio text is recovered locally, never surfaced as an error.
var fallbackRatio = ResolvedAspectRatio{
	Ratio:   16.0 / 9.0,
	AspectW: 16,
	AspectH: 9,
	Source:  RatioFallback,
}

// dropdownPattern matches the leading A:B numerals of a preset label such as
// "21:9 (Epic Ultrawide)". Trailing descriptive text is ignored.
var dropdownPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*:\s*(\d+(?:\.\d+)?)`)

// parseRatioText parses free-form "A:B" text where A and B are non-negative
// decimals, supporting fractional cinema ratios such as "1.85:1". The two
// numerals are reported as literally parsed, not reduced.
func parseRatioText(text string, source RatioSource) (ResolvedAspectRatio, bool) {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 2)
	if len(parts) != 2 {
		return ResolvedAspectRatio{}, false
	}

	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return ResolvedAspectRatio{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return ResolvedAspectRatio{}, false
	}
	if w <= 0 || h <= 0 {
		return ResolvedAspectRatio{}, false
	}

	return ResolvedAspectRatio{
		Ratio:   w / h,
		AspectW: w,
		AspectH: h,
		Source:  source,
	}, true
}

// parseDropdownLabel extracts the leading A:B pattern from a preset label.
func parseDropdownLabel(label string) (ResolvedAspectRatio, bool) {
	m := dropdownPattern.FindStringSubmatch(label)
	if m == nil {
		return ResolvedAspectRatio{}, false
	}
	return parseRatioText(m[1]+":"+m[2], RatioFromDropdown)
}

// resolveActiveRatio performs the independent 3-level aspect-ratio
// sub-resolution used by the single-dimension and defaults modes:
//  1. enabled custom ratio text (16:9 fallback on parse failure)
//  2. image aspect ratio when image mode is AR-only and dimensions exist
//  3. the dropdown preset label (16:9 fallback when no pattern matches)
func resolveActiveRatio(req Request) ResolvedAspectRatio {
	if req.CustomRatio.Enabled {
		if ar, ok := parseRatioText(req.CustomRatio.Text, RatioFromCustom); ok {
			return ar
		}
		log.Debugf("invalid custom aspect ratio %q, falling back to 16:9", req.CustomRatio.Text)
		return fallbackRatio
	}

	if req.ImageMode.Enabled && req.ImageMode.Mode == ImageModeAROnly && req.Image != nil {
		return derivedRatio(req.Image.Width, req.Image.Height, RatioFromImage)
	}

	if ar, ok := parseDropdownLabel(req.DropdownRatio); ok {
		return ar
	}
	log.Debugf("no ratio pattern in dropdown label %q, falling back to 16:9", req.DropdownRatio)
	return fallbackRatio
}
