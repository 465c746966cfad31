package types

import "errors"

// arithmetic
var (
	ErrMathOverflow     = errors.New("math overflow")
	ErrMathUnderflow    = errors.New("math underflow")
	ErrTypeCastOverflow = errors.New("type cast overflow")
	ErrDivideByZero     = errors.New("divide by zero")
	ErrAmountExceedsMax = errors.New("token amount exceeds max")
)

// domain
var (
	ErrZeroPriceRange              = errors.New("zero price range")
	ErrInvalidTickRange            = errors.New("invalid tick range: lower must be less than upper")
	ErrTickOutOfBounds             = errors.New("tick index out of bounds")
	ErrSqrtPriceOutOfBounds        = errors.New("sqrt price out of bounds")
	ErrInvalidLiquidationThreshold = errors.New("invalid liquidation threshold")
	ErrInvalidArguments            = errors.New("invalid instruction arguments")
	ErrLeverageOutOfRange          = errors.New("leverage out of range")
	ErrInvalidStateTransition      = errors.New("invalid position state transition")
	ErrTickArraySequenceExhausted  = errors.New("swap exceeds the supplied tick arrays")
	ErrInsufficientLiquidity       = errors.New("insufficient liquidity for swap")
)
