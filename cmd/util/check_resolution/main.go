package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dixieflatline76/SmartRes/pkg/imageinfo"
	"github.com/dixieflatline76/SmartRes/pkg/resolution"
)

func main() {
	width := flag.Float64("width", 1024, "target width in pixels")
	height := flag.Float64("height", 1024, "target height in pixels")
	megapixel := flag.Float64("mp", 1.0, "target size in megapixels")
	imagePath := flag.String("image", "", "image file whose dimensions feed the calculation")
	imageMode := flag.String("image-mode", "ar", "image usage: ar or exact")
	custom := flag.String("custom", "", "custom ratio text, e.g. 21:9")
	dropdown := flag.String("dropdown", "16:9 (Panorama)", "preset ratio label")
	div := flag.Int("div", 16, "divisor for the snapped preview")
	flag.Parse()

	// A flag only counts as an enabled input when it was set on the
	// command line, matching the toggle semantics of the engine.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	req := resolution.Request{
		Width:         resolution.DimensionInput{Enabled: set["width"], Value: *width},
		Height:        resolution.DimensionInput{Enabled: set["height"], Value: *height},
		Megapixel:     resolution.DimensionInput{Enabled: set["mp"], Value: *megapixel},
		CustomRatio:   resolution.CustomRatioInput{Enabled: set["custom"], Text: *custom},
		DropdownRatio: *dropdown,
	}

	if *imagePath != "" {
		provider := imageinfo.NewFileProvider()
		dims, err := provider.Lookup(*imagePath)
		if err != nil {
			fmt.Printf("Error reading image: %v\n", err)
			os.Exit(1)
		}
		req.Image = dims

		mode := resolution.ImageModeAROnly
		if *imageMode == "exact" {
			mode = resolution.ImageModeExactDims
		}
		req.ImageMode = resolution.ImageModeInput{Enabled: true, Mode: mode}
		fmt.Printf("Image: %s (%dx%d)\n", *imagePath, dims.Width, dims.Height)
	}

	engine := resolution.NewEngine()
	res, err := engine.Calculate(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mode: %s (priority %d)\n", res.Mode, res.Priority)
	fmt.Printf("Base: %dx%d\n", res.BaseW, res.BaseH)
	fmt.Printf("Aspect: %g:%g (%.6f, %s)\n", res.AR.AspectW, res.AR.AspectH, res.AR.Ratio, res.AR.Source)
	fmt.Printf("Inputs: %s\n", joinInputs(res.ActiveInputs))
	fmt.Printf("Preview (/%d): %dx%d\n", *div,
		resolution.SnapToDivisor(res.BaseW, *div),
		resolution.SnapToDivisor(res.BaseH, *div))

	for _, c := range res.Conflicts {
		fmt.Printf("Conflict [%s] %s: %s\n", c.Severity, c.Kind, c.Message)
	}
}

func joinInputs(tags []resolution.InputTag) string {
	if len(tags) == 0 {
		return "(none)"
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, ", ")
}
