package coords

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateBounds is returned when a bounds minimum exceeds its maximum on some axis
var ErrDegenerateBounds = errors.New("degenerate bounds")

// Bounds is an axis aligned rectangle, inclusive on both ends
type Bounds struct {
	Min, Max Vec2
}

// Validate reports a configuration error for inverted or NaN bounds
func (b Bounds) Validate() error {
	if math.IsNaN(b.Min.X) || math.IsNaN(b.Min.Y) || math.IsNaN(b.Max.X) || math.IsNaN(b.Max.Y) {
		return fmt.Errorf("%w: NaN in %v", ErrDegenerateBounds, b)
	}
	if b.Min.X > b.Max.X {
		return fmt.Errorf("%w: x min %g > max %g", ErrDegenerateBounds, b.Min.X, b.Max.X)
	}
	if b.Min.Y > b.Max.Y {
		return fmt.Errorf("%w: y min %g > max %g", ErrDegenerateBounds, b.Min.Y, b.Max.Y)
	}
	return nil
}

// Clamp returns p moved into the bounds, axis by axis
func (b Bounds) Clamp(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(b.Min.X, math.Min(b.Max.X, p.X)),
		Y: math.Max(b.Min.Y, math.Min(b.Max.Y, p.Y)),
	}
}

// Contains reports whether p lies inside the bounds
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Expand grows the bounds by margin on every side
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		Min: Vec2{b.Min.X - margin, b.Min.Y - margin},
		Max: Vec2{b.Max.X + margin, b.Max.Y + margin},
	}
}
