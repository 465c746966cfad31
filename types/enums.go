package types

type Rounding uint8

const (
	RoundingDown Rounding = iota
	RoundingUp
)

type TradeDirection uint8

const (
	AtoB TradeDirection = iota
	BtoA
)

// PoolToken selects one side of a two-token pool.
type PoolToken uint8

const (
	PoolTokenA PoolToken = iota
	PoolTokenB
)

// Opposite returns the other side of the pool.
func (t PoolToken) Opposite() PoolToken {
	if t == PoolTokenA {
		return PoolTokenB
	}
	return PoolTokenA
}

func (t PoolToken) String() string {
	if t == PoolTokenA {
		return "A"
	}
	return "B"
}

type PositionState uint8

const (
	PositionStateNormal PositionState = iota
	PositionStateLiquidated
	PositionStateClosedByLimitOrder
)

type LimitOrderType uint8

const (
	LimitOrderStopLoss LimitOrderType = iota
	LimitOrderTakeProfit
)
