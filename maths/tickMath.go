package maths

import (
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/holiman/uint256"
)

var (
	// positiveTickFactors[0] and [1] seed the ratio for odd and even ticks,
	// the rest are sqrt(1.0001)^(2^i) in Q32.96 for i = 1..18, truncated.
	positiveTickFactors = [20]*uint256.Int{
		uint256.MustFromDecimal("79232123823359799118286999567"),
		uint256.MustFromDecimal("79228162514264337593543950336"),
		uint256.MustFromDecimal("79236085330515764027303304731"),
		uint256.MustFromDecimal("79244008939048815603706035061"),
		uint256.MustFromDecimal("79259858533276714757314932305"),
		uint256.MustFromDecimal("79291567232598584799939703904"),
		uint256.MustFromDecimal("79355022692464371645785046466"),
		uint256.MustFromDecimal("79482085999252804386437311141"),
		uint256.MustFromDecimal("79736823300114093921829183326"),
		uint256.MustFromDecimal("80248749790819932309965073892"),
		uint256.MustFromDecimal("81282483887344747381513967011"),
		uint256.MustFromDecimal("83390072131320151908154831281"),
		uint256.MustFromDecimal("87770609709833776024991924138"),
		uint256.MustFromDecimal("97234110755111693312479820773"),
		uint256.MustFromDecimal("119332217159966728226237229890"),
		uint256.MustFromDecimal("179736315981702064433883588727"),
		uint256.MustFromDecimal("407748233172238350107850275304"),
		uint256.MustFromDecimal("2098478828474011932436660412517"),
		uint256.MustFromDecimal("55581415166113811149459800483533"),
		uint256.MustFromDecimal("38992368544603139932233054999993551"),
	}

	// negativeTickFactors are 1/sqrt(1.0001)^(2^i) in Q64.64, truncated, with
	// the same odd/even seed layout.
	negativeTickFactors = [20]*uint256.Int{
		uint256.NewInt(18445821805675392311),
		uint256.MustFromDecimal("18446744073709551616"),
		uint256.NewInt(18444899583751176498),
		uint256.NewInt(18443055278223354162),
		uint256.NewInt(18439367220385604838),
		uint256.NewInt(18431993317065449817),
		uint256.NewInt(18417254355718160513),
		uint256.NewInt(18387811781193591352),
		uint256.NewInt(18329067761203520168),
		uint256.NewInt(18212142134806087854),
		uint256.NewInt(17980523815641551639),
		uint256.NewInt(17526086738831147013),
		uint256.NewInt(16651378430235024244),
		uint256.NewInt(15030750278693429944),
		uint256.NewInt(12247334978882834399),
		uint256.NewInt(8131365268884726200),
		uint256.NewInt(3584323654723342297),
		uint256.NewInt(696457651847595233),
		uint256.NewInt(26294789957452057),
		uint256.NewInt(37481735321082),
	}
)

// TickIndexToSqrtPrice returns sqrt(1.0001^tick) as a Q64.64 number.
//
// The ratio is built from the bit decomposition of |tick|, truncating after
// every step. Positive ticks multiply in Q32.96 and drop 32 bits at the end,
// negative ticks multiply in Q64.64 directly. MinTickIndex and MaxTickIndex
// map exactly to MinSqrtPrice and MaxSqrtPrice.
func TickIndexToSqrtPrice(tick int32) (*big.Int, error) {
	if tick < constants.MinTickIndex || tick > constants.MaxTickIndex {
		return nil, types.ErrTickOutOfBounds
	}
	if tick >= 0 {
		return sqrtPricePositiveTick(uint32(tick)), nil
	}
	return sqrtPriceNegativeTick(uint32(-tick)), nil
}

func sqrtPricePositiveTick(tick uint32) *big.Int {
	ratio := tickRatio(tick, positiveTickFactors, 96)
	return ratio.Rsh(ratio, 32).ToBig()
}

func sqrtPriceNegativeTick(absTick uint32) *big.Int {
	return tickRatio(absTick, negativeTickFactors, constants.ScaleOffset).ToBig()
}

func tickRatio(absTick uint32, factors [20]*uint256.Int, shift uint) *uint256.Int {
	ratio := new(uint256.Int)
	if absTick&1 != 0 {
		ratio.Set(factors[0])
	} else {
		ratio.Set(factors[1])
	}
	for i := 1; i < 19; i++ {
		if absTick&(1<<i) != 0 {
			ratio.Mul(ratio, factors[i+1])
			ratio.Rsh(ratio, shift)
		}
	}
	return ratio
}

// SqrtPriceToTickIndex returns the greatest tick whose sqrt price does not
// exceed sqrtPrice.
func SqrtPriceToTickIndex(sqrtPrice *big.Int) (int32, error) {
	if sqrtPrice == nil || sqrtPrice.Cmp(constants.MinSqrtPrice) < 0 || sqrtPrice.Cmp(constants.MaxSqrtPrice) > 0 {
		return 0, types.ErrSqrtPriceOutOfBounds
	}

	lo, hi := int32(constants.MinTickIndex), int32(constants.MaxTickIndex)
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		s, err := TickIndexToSqrtPrice(mid)
		if err != nil {
			return 0, err
		}
		if s.Cmp(sqrtPrice) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}
