// Package config loads market parameters from TOML.
//
//	[[market]]
//	pool = "Czfq3xZZDmsdGdUyrNLtRhGc47cXcZtLG4crryfu44zE"
//	liquidation_threshold = "0.83"
//	max_leverage = "5"
//	protocol_fee = "0.001"
//	protocol_fee_on_collateral = "0.0005"
//	max_swap_slippage = "0.02"
//	oracle_price_deviation_threshold = "0.01"
//
// Rates are written as fractions and stored in HundredPercent units.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var ErrInvalidMarketConfig = errors.New("invalid market config")

type MarketConfig struct {
	Pool                          string `toml:"pool"`
	LiquidationThreshold          string `toml:"liquidation_threshold"`
	MaxLeverage                   string `toml:"max_leverage"`
	ProtocolFee                   string `toml:"protocol_fee"`
	ProtocolFeeOnCollateral       string `toml:"protocol_fee_on_collateral"`
	MaxSwapSlippage               string `toml:"max_swap_slippage"`
	OraclePriceDeviationThreshold string `toml:"oracle_price_deviation_threshold"`
	Disabled                      bool   `toml:"disabled"`
}

type marketsFile struct {
	Markets []MarketConfig `toml:"market"`
}

// LoadMarkets reads every [[market]] table of the file at path.
func LoadMarkets(path string) (map[solana.PublicKey]types.Market, error) {
	var file marketsFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return buildMarkets(file, meta)
}

func ParseMarkets(r io.Reader) (map[solana.PublicKey]types.Market, error) {
	var file marketsFile
	meta, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("config: decode markets: %w", err)
	}
	return buildMarkets(file, meta)
}

func buildMarkets(file marketsFile, meta toml.MetaData) (map[solana.PublicKey]types.Market, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config: unknown fields %s: %w", strings.Join(keys, ", "), ErrInvalidMarketConfig)
	}

	markets := make(map[solana.PublicKey]types.Market, len(file.Markets))
	for i, cfg := range file.Markets {
		market, err := cfg.Market()
		if err != nil {
			return nil, fmt.Errorf("config: market %d: %w", i, err)
		}
		if _, ok := markets[market.Pool]; ok {
			return nil, fmt.Errorf("config: duplicate market %s: %w", market.Pool, ErrInvalidMarketConfig)
		}
		markets[market.Pool] = market
	}
	return markets, nil
}

// Market converts the config into validated protocol parameters.
func (c MarketConfig) Market() (types.Market, error) {
	pool, err := solana.PublicKeyFromBase58(c.Pool)
	if err != nil {
		return types.Market{}, fmt.Errorf("pool %q: %w", c.Pool, ErrInvalidMarketConfig)
	}

	market := types.Market{Pool: pool, Disabled: c.Disabled}
	fields := []struct {
		name  string
		value string
		dst   *uint32
	}{
		{"liquidation_threshold", c.LiquidationThreshold, &market.LiquidationThreshold},
		{"max_leverage", c.MaxLeverage, &market.MaxLeverage},
		{"protocol_fee", c.ProtocolFee, &market.ProtocolFee},
		{"protocol_fee_on_collateral", c.ProtocolFeeOnCollateral, &market.ProtocolFeeOnCollateral},
		{"max_swap_slippage", c.MaxSwapSlippage, &market.MaxSwapSlippage},
		{"oracle_price_deviation_threshold", c.OraclePriceDeviationThreshold, &market.OraclePriceDeviationThreshold},
	}
	for _, f := range fields {
		if *f.dst, err = parseRate(f.value); err != nil {
			return types.Market{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if err := market.Validate(); err != nil {
		return types.Market{}, err
	}
	return market, nil
}

// parseRate turns a fraction into HundredPercent units. Empty means zero.
func parseRate(value string) (uint32, error) {
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", value, ErrInvalidMarketConfig)
	}
	scaled := d.Mul(decimal.NewFromInt(constants.HundredPercent))
	if scaled.IsNegative() || !scaled.Equal(scaled.Truncate(0)) || scaled.GreaterThan(decimal.NewFromInt(1<<32-1)) {
		return 0, fmt.Errorf("%q: %w", value, ErrInvalidMarketConfig)
	}
	return uint32(scaled.IntPart()), nil
}
