package resolution

// rule pairs a predicate with its mode calculator. Priority order is data:
// the rules slice is evaluated top to bottom and the first satisfied
// predicate wins. The final rule always matches, so every request resolves.
type rule struct {
	name      string
	predicate func(Request) bool
	handler   func(Request) *Result
}

// rules is the six-level decision chain. The predicates are mutually
// exclusive given the ordering: a rule only sees requests every earlier
// predicate rejected.
var rules = []rule{
	{
		// 1. Exact image dimensions override everything. The handler
		// degrades to defaults when no image is available.
		name: "exact_dims",
		predicate: func(r Request) bool {
			return r.ImageMode.Enabled && r.ImageMode.Mode == ImageModeExactDims
		},
		handler: calcExactDims,
	},
	{
		// 2. Width + height + megapixel: rescale to the MP target
		// preserving the implied AR.
		name: "triple_scalar",
		predicate: func(r Request) bool {
			return r.Width.Enabled && r.Height.Enabled && r.Megapixel.Enabled
		},
		handler: calcTripleScalar,
	},
	{
		// 3a. Width + height explicit.
		name: "width_height",
		predicate: func(r Request) bool {
			return r.Width.Enabled && r.Height.Enabled
		},
		handler: calcWidthHeight,
	},
	{
		// 3b. Megapixel + width.
		name: "mp_width",
		predicate: func(r Request) bool {
			return r.Megapixel.Enabled && r.Width.Enabled
		},
		handler: calcMPWidth,
	},
	{
		// 3c. Megapixel + height.
		name: "mp_height",
		predicate: func(r Request) bool {
			return r.Megapixel.Enabled && r.Height.Enabled
		},
		handler: calcMPHeight,
	},
	{
		// 4. Image AR only. The handler degrades to defaults when no
		// image is available.
		name: "ar_only",
		predicate: func(r Request) bool {
			return r.ImageMode.Enabled && r.ImageMode.Mode == ImageModeAROnly
		},
		handler: calcAROnly,
	},
	{
		// 5. Exactly one dimension input left enabled.
		name: "single_with_ar",
		predicate: func(r Request) bool {
			return r.Width.Enabled || r.Height.Enabled || r.Megapixel.Enabled
		},
		handler: calcSingleWithAR,
	},
	{
		// 6. Catch-all defaults.
		name:      "defaults",
		predicate: func(Request) bool { return true },
		handler:   calcDefaults,
	},
}

// resolve runs the rule table and annotates the winning result with its
// conflicts. The returned result is freshly allocated on every call.
func resolve(req Request) *Result {
	for _, rl := range rules {
		if !rl.predicate(req) {
			continue
		}
		res := rl.handler(req)
		res.Conflicts = detectConflicts(res.Mode, req)
		return res
	}
	// Unreachable: the last rule always matches.
	res := calcDefaults(req)
	res.Conflicts = detectConflicts(res.Mode, req)
	return res
}
