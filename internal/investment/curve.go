package investment

import (
	"fmt"
	"math"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// curve evaluates a monotone non-decreasing payout function with f(0) = 0.
type curve struct {
	class model.CurveClass
	scale float64
	rate  float64
}

func newCurve(c *model.Curve) (curve, error) {
	if c == nil {
		// zero scale: pays nothing
		return curve{class: model.CurveConstant}, nil
	}
	if c.Scale < 0 || c.Rate < 0 || math.IsNaN(c.Scale) || math.IsNaN(c.Rate) {
		return curve{}, fmt.Errorf("curve %s: scale and rate must not be negative", c.Class)
	}
	switch c.Class {
	case model.CurveConstant, model.CurveLinear, model.CurveExponential,
		model.CurveLogarithmic, model.CurveLogistic:
	default:
		return curve{}, fmt.Errorf("unknown curve class %q", c.Class)
	}
	return curve{class: c.Class, scale: c.Scale, rate: c.Rate}, nil
}

func (c curve) eval(x int) float64 {
	if x <= 0 {
		return 0
	}
	u := c.rate * float64(x)
	var g float64
	switch c.class {
	case model.CurveConstant:
		g = 1
	case model.CurveLinear:
		g = u
	case model.CurveExponential:
		g = math.Expm1(u)
	case model.CurveLogarithmic:
		g = math.Log1p(u)
	case model.CurveLogistic:
		g = 2/(1+math.Exp(-u)) - 1
	}
	return c.scale * g
}

// value is the whole-unit cumulative payout at x.
func (c curve) value(x int) int {
	v := math.Floor(c.eval(x))
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
