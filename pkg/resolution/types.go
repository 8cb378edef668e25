// Package resolution implements the dimension and aspect-ratio resolution
// engine: given togglable width/height/megapixel inputs and competing
// aspect-ratio sources, it picks exactly one calculation strategy, computes
// base dimensions, and reports which configured inputs were overridden.
package resolution

// ModeTag identifies the calculation strategy a result was produced by.
type ModeTag string

// Calculation modes, one or more per priority level.
const (
	ModeExactDims           ModeTag = "exact_dims"
	ModeMPScalarWithAR      ModeTag = "mp_scalar_with_ar"
	ModeWidthHeightExplicit ModeTag = "width_height_explicit"
	ModeMPWidthExplicit     ModeTag = "mp_width_explicit"
	ModeMPHeightExplicit    ModeTag = "mp_height_explicit"
	ModeAROnly              ModeTag = "ar_only"
	ModeWidthWithAR         ModeTag = "width_with_ar"
	ModeHeightWithAR        ModeTag = "height_with_ar"
	ModeMPWithAR            ModeTag = "mp_with_ar"
	ModeDefaultsWithAR      ModeTag = "defaults_with_ar"
)

// SourceTag identifies where the base dimensions ultimately came from.
type SourceTag string

// Dimension sources.
const (
	SourceImage             SourceTag = "image"
	SourceWidgetsExplicit   SourceTag = "widgets_explicit"
	SourceWidgetsMPComputed SourceTag = "widgets_mp_computed"
	SourceImageAR           SourceTag = "image_ar"
	SourceWidgetWithAR      SourceTag = "widget_with_ar"
	SourceDefaults          SourceTag = "defaults"
)

// InputTag names a single user-facing input for conflict reporting.
type InputTag string

// Input tags.
const (
	InputWidth       InputTag = "width"
	InputHeight      InputTag = "height"
	InputMegapixel   InputTag = "megapixel"
	InputImageMode   InputTag = "image_mode"
	InputCustomRatio InputTag = "custom_ratio"
	InputDropdown    InputTag = "dropdown"
)

// RatioSource identifies which of the competing aspect-ratio sources won.
type RatioSource string

// Aspect ratio sources.
const (
	RatioFromCustom   RatioSource = "custom"
	RatioFromImage    RatioSource = "image"
	RatioFromDropdown RatioSource = "dropdown"
	RatioDerived      RatioSource = "derived"
	RatioFallback     RatioSource = "fallback"
)

// ImageMode selects how connected image dimensions are applied.
type ImageMode int

// Image modes.
const (
	// ImageModeAROnly uses only the image's aspect ratio.
	ImageModeAROnly ImageMode = iota
	// ImageModeExactDims uses the image's dimensions verbatim.
	ImageModeExactDims
)

// DimensionInput is one togglable numeric input (width, height or megapixel).
type DimensionInput struct {
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
}

// ImageModeInput is the toggle selecting how image dimensions participate.
type ImageModeInput struct {
	Enabled bool      `json:"enabled"`
	Mode    ImageMode `json:"mode"`
}

// CustomRatioInput is the free-text aspect ratio toggle.
type CustomRatioInput struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

// ImageDimensions is an externally supplied, already-resolved image size.
// The engine does not care how the host obtained it.
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Request is an immutable snapshot of every input the engine consumes.
// The host builds one per evaluation; the engine never reads live UI state.
type Request struct {
	Width       DimensionInput   `json:"width"`
	Height      DimensionInput   `json:"height"`
	Megapixel   DimensionInput   `json:"megapixel"`
	ImageMode   ImageModeInput   `json:"image_mode"`
	CustomRatio CustomRatioInput `json:"custom_ratio"`
	// DropdownRatio is the preset label, e.g. "16:9 (Panorama)". Always present.
	DropdownRatio string `json:"dropdown_ratio"`
	// Image is nil when no valid connected or cached image exists.
	Image *ImageDimensions `json:"image,omitempty"`
}

// Equal reports whether two requests describe the same input snapshot,
// comparing image dimensions by value rather than pointer identity.
func (r Request) Equal(o Request) bool {
	if r.Width != o.Width || r.Height != o.Height || r.Megapixel != o.Megapixel {
		return false
	}
	if r.ImageMode != o.ImageMode || r.CustomRatio != o.CustomRatio || r.DropdownRatio != o.DropdownRatio {
		return false
	}
	if (r.Image == nil) != (o.Image == nil) {
		return false
	}
	if r.Image != nil && *r.Image != *o.Image {
		return false
	}
	return true
}

// ResolvedAspectRatio is the active aspect ratio with its provenance.
// AspectW and AspectH are reported as literally parsed for custom and
// dropdown ratios, and GCD-reduced for ratios computed from concrete
// width/height pairs.
type ResolvedAspectRatio struct {
	Ratio   float64     `json:"ratio"`
	AspectW float64     `json:"aspect_w"`
	AspectH float64     `json:"aspect_h"`
	Source  RatioSource `json:"source"`
}

// Severity grades a conflict.
type Severity string

// Conflict severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// ConflictKind classifies what kind of override produced a conflict.
type ConflictKind string

// Conflict kinds.
const (
	ConflictExactDimsOverride   ConflictKind = "exact_dims_override"
	ConflictCustomRatioOverride ConflictKind = "custom_ratio_overridden"
	ConflictImageAROverride     ConflictKind = "image_ar_overridden"
	ConflictDropdownOverride    ConflictKind = "dropdown_overridden"
)

// Conflict reports a configured-but-unused input silently overridden by the
// selected calculation mode.
type Conflict struct {
	Kind     ConflictKind `json:"kind"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	Affected []InputTag   `json:"affected"`
}

// Result is the immutable outcome of one resolution pass.
type Result struct {
	Mode         ModeTag             `json:"mode"`
	Priority     int                 `json:"priority"`
	BaseW        int                 `json:"base_w"`
	BaseH        int                 `json:"base_h"`
	AR           ResolvedAspectRatio `json:"ar"`
	Source       SourceTag           `json:"source"`
	ActiveInputs []InputTag          `json:"active_inputs"`
	Conflicts    []Conflict          `json:"conflicts"`
	Description  string              `json:"description"`
}

// clone returns a copy with its own slice backing, so a cached result can be
// handed out without aliasing.
func (res *Result) clone() *Result {
	cp := *res
	cp.ActiveInputs = append([]InputTag(nil), res.ActiveInputs...)
	cp.Conflicts = append([]Conflict(nil), res.Conflicts...)
	return &cp
}
