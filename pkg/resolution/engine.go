package resolution

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ErrInvalidInput is returned when an enabled input carries a structurally
// invalid value: zero, negative, non-finite, or a width/height that rounds
// below one pixel. Use errors.Is to detect it.
var ErrInvalidInput = errors.New("invalid resolution input")

// DefaultCacheTTL bounds how long a cached result stays valid. It only needs
// to outlive a burst of identical UI redraw ticks.
const DefaultCacheTTL = 100 * time.Millisecond

// Engine evaluates resolution requests. It is safe for concurrent use; the
// only mutable state is the single cache slot.
//
// The cache contract is explicit: the host must call InvalidateCache whenever
// any request field or the externally supplied image dimensions change. There
// is no implicit dependency tracking. As a safety net the slot also remembers
// the request it was computed from and refuses to serve a different one.
type Engine struct {
	mu  sync.Mutex
	ttl time.Duration

	cached   *Result
	cachedAt time.Time
	cacheReq Request

	// now is a testing hook.
	now func() time.Time
}

// NewEngine creates an engine with the default cache TTL.
func NewEngine() *Engine {
	return &Engine{
		ttl: DefaultCacheTTL,
		now: time.Now,
	}
}

// SetCacheTTL overrides the cache validity window. A non-positive value
// disables caching.
func (e *Engine) SetCacheTTL(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ttl = d
}

// InvalidateCache drops the cached result. Hosts call this whenever any
// contributing input changes.
func (e *Engine) InvalidateCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cached = nil
}

// Calculate resolves a request into base dimensions, an aspect ratio and the
// list of overridden inputs. Identical requests within the cache window
// return the memoized result. The returned result is immutable from the
// engine's point of view; callers get their own copy.
func (e *Engine) Calculate(req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cached != nil && e.ttl > 0 &&
		e.now().Sub(e.cachedAt) < e.ttl && req.Equal(e.cacheReq) {
		return e.cached.clone(), nil
	}

	res := resolve(req)
	e.cached = res
	e.cachedAt = e.now()
	e.cacheReq = req
	return res.clone(), nil
}

// validate rejects structurally invalid numeric input up front instead of
// letting it propagate into nonsensical dimensions.
func validate(req Request) error {
	if err := validatePixelDimension("width", req.Width); err != nil {
		return err
	}
	if err := validatePixelDimension("height", req.Height); err != nil {
		return err
	}
	if err := validateDimension("megapixel", req.Megapixel); err != nil {
		return err
	}
	if req.ImageMode.Enabled && req.Image != nil {
		if req.Image.Width <= 0 || req.Image.Height <= 0 {
			return fmt.Errorf("%w: image dimensions %dx%d must be positive",
				ErrInvalidInput, req.Image.Width, req.Image.Height)
		}
	}
	return nil
}

func validateDimension(name string, in DimensionInput) error {
	if !in.Enabled {
		return nil
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return fmt.Errorf("%w: %s value is not finite", ErrInvalidInput, name)
	}
	if in.Value <= 0 {
		return fmt.Errorf("%w: %s value %v must be positive", ErrInvalidInput, name, in.Value)
	}
	return nil
}

// validatePixelDimension additionally requires the value to survive rounding
// as a whole pixel. Anything below 0.5 would collapse to zero and poison
// every downstream division.
func validatePixelDimension(name string, in DimensionInput) error {
	if err := validateDimension(name, in); err != nil {
		return err
	}
	if in.Enabled && roundHalfAway(in.Value) < 1 {
		return fmt.Errorf("%w: %s value %v rounds to zero pixels", ErrInvalidInput, name, in.Value)
	}
	return nil
}
