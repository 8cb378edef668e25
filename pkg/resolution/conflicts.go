package resolution

import "fmt"

// detectConflicts maps the selected mode and the full input snapshot to the
// list of configured-but-unused inputs the mode silently overrides. It is a
// pure function; the engine attaches its output to every result so no
// override is ever dropped silently.
func detectConflicts(mode ModeTag, req Request) []Conflict {
	switch mode {
	case ModeExactDims:
		return exactDimsConflicts(req)
	case ModeMPScalarWithAR, ModeWidthHeightExplicit, ModeMPWidthExplicit, ModeMPHeightExplicit:
		return explicitDimsConflicts(req)
	case ModeAROnly:
		return arOnlyConflicts(req)
	default:
		// Single-dimension and defaults modes consume the active AR, so no
		// competing explicit dimension exists to override.
		return nil
	}
}

// exactDimsConflicts: every enabled dimension toggle is ignored when exact
// image dimensions are in force.
func exactDimsConflicts(req Request) []Conflict {
	var conflicts []Conflict

	add := func(tag InputTag, label string) {
		conflicts = append(conflicts, Conflict{
			Kind:     ConflictExactDimsOverride,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("Exact image dimensions override the %s input", label),
			Affected: []InputTag{tag},
		})
	}

	if req.Width.Enabled {
		add(InputWidth, "width")
	}
	if req.Height.Enabled {
		add(InputHeight, "height")
	}
	if req.Megapixel.Enabled {
		add(InputMegapixel, "megapixel")
	}
	return conflicts
}

// explicitDimsConflicts: the triple and explicit-pair modes imply their own
// aspect ratio, overriding every configured ratio source. The dropdown is
// always present, so its override is informational, never a warning.
func explicitDimsConflicts(req Request) []Conflict {
	var conflicts []Conflict

	if req.CustomRatio.Enabled {
		conflicts = append(conflicts, Conflict{
			Kind:     ConflictCustomRatioOverride,
			Severity: SeverityWarning,
			Message:  "Aspect ratio implied by explicit dimensions overrides the custom ratio",
			Affected: []InputTag{InputCustomRatio},
		})
	}
	if req.ImageMode.Enabled && req.ImageMode.Mode == ImageModeAROnly {
		conflicts = append(conflicts, Conflict{
			Kind:     ConflictImageAROverride,
			Severity: SeverityWarning,
			Message:  "Explicit dimensions override the image aspect ratio",
			Affected: []InputTag{InputImageMode},
		})
	}
	conflicts = append(conflicts, Conflict{
		Kind:     ConflictDropdownOverride,
		Severity: SeverityInfo,
		Message:  "Aspect ratio implied by explicit dimensions overrides the preset dropdown",
		Affected: []InputTag{InputDropdown},
	})
	return conflicts
}

// arOnlyConflicts: the image aspect ratio wins over an enabled custom ratio.
func arOnlyConflicts(req Request) []Conflict {
	if !req.CustomRatio.Enabled {
		return nil
	}
	return []Conflict{{
		Kind:     ConflictCustomRatioOverride,
		Severity: SeverityWarning,
		Message:  "Image aspect ratio overrides the custom ratio",
		Affected: []InputTag{InputCustomRatio},
	}}
}
