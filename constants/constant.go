package constants

import (
	"math"
	"math/big"
)

const (
	// HundredPercent is 100% for every percentage-like protocol parameter.
	HundredPercent = 1_000_000
	// ComputedAmount asks the quoting engine to derive an amount from the other inputs.
	ComputedAmount = math.MaxUint64

	ScaleOffset        = 64
	BasisPointMax      = 10_000
	FeeRateDenominator = 1_000_000

	MinTickIndex  = -443636
	MaxTickIndex  = 443636
	TickArraySize = 88

	// MinAccrualInterval is the shortest elapsed time, in seconds, for which
	// interest is compounded into a vault.
	MinAccrualInterval = 60
	SecondsPerYear     = 31_536_000

	// LpPositionVersionSqrtPriceLimitOrders is the first liquidity position
	// version whose limit orders are stored as sqrt prices instead of ticks.
	LpPositionVersionSqrtPriceLimitOrders = 2
)

var (
	// MinSqrtPrice
	//  MinSqrtPrice = new(big.Int).SetUint64(4295048016)
	MinSqrtPrice = new(big.Int).SetUint64(4295048016)

	// MaxSqrtPrice
	//  MaxSqrtPrice = new(big.Int).SetString("79226673515401279992447579055", 10)
	MaxSqrtPrice, _ = new(big.Int).SetString("79226673515401279992447579055", 10)

	// Q64 is 1.0 in Q64.64.
	Q64 = new(big.Int).Lsh(big.NewInt(1), ScaleOffset)
)
