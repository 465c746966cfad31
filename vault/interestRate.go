package vault

import (
	"fmt"

	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
)

// InterestRateCurve scales a vault's base interest rate by a factor that
// depends on utilization.
type InterestRateCurve interface {
	Multiplier(utilization maths.Fixed) (maths.Fixed, error)
}

// FlatCurve always returns 1.0.
type FlatCurve struct{}

func (FlatCurve) Multiplier(maths.Fixed) (maths.Fixed, error) {
	return maths.FixedOne(), nil
}

type CurvePoint struct {
	Utilization maths.Fixed
	Multiplier  maths.Fixed
}

// KinkedCurve interpolates linearly between points sorted by utilization.
// Utilization outside the sampled range is clamped to the first or last point.
type KinkedCurve struct {
	Points []CurvePoint
}

// DefaultInterestRateCurve keeps the base rate up to 80% utilization and
// raises it steeply towards full utilization.
func DefaultInterestRateCurve() KinkedCurve {
	kink, _ := maths.FixedFromRatio(8, 10)
	return KinkedCurve{Points: []CurvePoint{
		{Utilization: maths.Fixed{}, Multiplier: maths.FixedOne()},
		{Utilization: kink, Multiplier: maths.FixedFromUint64(2)},
		{Utilization: maths.FixedOne(), Multiplier: maths.FixedFromUint64(8)},
	}}
}

func (c KinkedCurve) Validate() error {
	if len(c.Points) == 0 {
		return fmt.Errorf("interest rate curve has no points: %w", types.ErrInvalidArguments)
	}
	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].Utilization.Cmp(c.Points[i-1].Utilization) <= 0 {
			return fmt.Errorf("interest rate curve points out of order at %d: %w", i, types.ErrInvalidArguments)
		}
	}
	return nil
}

func (c KinkedCurve) Multiplier(utilization maths.Fixed) (maths.Fixed, error) {
	if err := c.Validate(); err != nil {
		return maths.Fixed{}, err
	}

	first, last := c.Points[0], c.Points[len(c.Points)-1]
	if utilization.Cmp(first.Utilization) <= 0 {
		return first.Multiplier, nil
	}
	if utilization.Cmp(last.Utilization) >= 0 {
		return last.Multiplier, nil
	}

	for i := 1; i < len(c.Points); i++ {
		lo, hi := c.Points[i-1], c.Points[i]
		if utilization.Cmp(hi.Utilization) > 0 {
			continue
		}

		// m = m_lo + (m_hi - m_lo) * (u - u_lo) / (u_hi - u_lo)
		span, err := hi.Utilization.Sub(lo.Utilization)
		if err != nil {
			return maths.Fixed{}, err
		}
		offset, err := utilization.Sub(lo.Utilization)
		if err != nil {
			return maths.Fixed{}, err
		}
		t, err := offset.Div(span)
		if err != nil {
			return maths.Fixed{}, err
		}

		if hi.Multiplier.Cmp(lo.Multiplier) >= 0 {
			delta, err := hi.Multiplier.Sub(lo.Multiplier)
			if err != nil {
				return maths.Fixed{}, err
			}
			step, err := delta.Mul(t)
			if err != nil {
				return maths.Fixed{}, err
			}
			return lo.Multiplier.Add(step)
		}

		delta, err := lo.Multiplier.Sub(hi.Multiplier)
		if err != nil {
			return maths.Fixed{}, err
		}
		step, err := delta.Mul(t)
		if err != nil {
			return maths.Fixed{}, err
		}
		return lo.Multiplier.Sub(step)
	}

	return last.Multiplier, nil
}
