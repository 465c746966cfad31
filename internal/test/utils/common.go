package testUtils

import (
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	bin "github.com/gagliardetto/binary"
)

// EncodePriceSqrt returns sqrt(reserve1 / reserve0) as a Q64.64 number.
func EncodePriceSqrt(reserve1, reserve0 uint64) *big.Int {
	n := new(big.Int).Lsh(new(big.Int).SetUint64(reserve1), 128)
	n.Quo(n, new(big.Int).SetUint64(reserve0))
	return n.Sqrt(n)
}

func Uint128(v *big.Int) bin.Uint128 {
	return helpers.MustBigIntToUint128(v)
}

func Int128(v int64) bin.Int128 {
	x := big.NewInt(v)
	if x.Sign() < 0 {
		x.Add(x, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	return bin.Int128{
		Lo: new(big.Int).And(x, mask).Uint64(),
		Hi: new(big.Int).Rsh(x, 64).Uint64(),
	}
}

// NewPool builds a pool snapshot at tick 0 (price 1.0).
func NewPool(liquidity *big.Int, tickSpacing, feeRate uint16) types.PoolState {
	return types.PoolState{
		Address:          Pool,
		MintA:            MintA,
		MintB:            MintB,
		TickSpacing:      tickSpacing,
		FeeRate:          feeRate,
		SqrtPrice:        Uint128(Q64),
		TickCurrentIndex: 0,
		Liquidity:        Uint128(liquidity),
	}
}

// NewTickArrays returns the five arrays around tick 0 with the given ticks
// initialized. Each entry of liquidityNet maps a tick index to its net
// liquidity change when crossed left to right.
func NewTickArrays(tickSpacing uint16, liquidityNet map[int32]int64) []types.TickArray {
	width := int32(tickSpacing) * constants.TickArraySize
	arrays := make([]types.TickArray, 0, 5)
	for i := int32(-2); i <= 2; i++ {
		arrays = append(arrays, types.TickArray{StartTickIndex: i * width})
	}
	for tick, net := range liquidityNet {
		for i := range arrays {
			start := arrays[i].StartTickIndex
			if tick >= start && tick < start+width {
				offset := (tick - start) / int32(tickSpacing)
				arrays[i].Ticks[offset] = types.Tick{
					Initialized:  true,
					LiquidityNet: Int128(net),
				}
			}
		}
	}
	return arrays
}
