package testUtils

import (
	"log"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

const (
	Decimals = 6

	// OnePercentFee is 1% expressed in hundredths of a basis point.
	OnePercentFee = 10_000

	LiquidationThreshold80 = 800_000
)

var (
	// MaxSqrtPrice
	//  MaxSqrtPrice = new(big.Int).SetString("79226673515401279992447579055", 10)
	MaxSqrtPrice *big.Int

	// MinSqrtPrice
	//  MinSqrtPrice = big.NewInt(4295048016)
	MinSqrtPrice = big.NewInt(4_295_048_016)

	// Q64 is a sqrt price of exactly 1.0.
	Q64 = new(big.Int).Lsh(big.NewInt(1), 64)

	MintA = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	MintB = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qZxF3iHaAZQKSaD5RD6YEmW6ma")
	Pool  = solana.MustPublicKeyFromBase58("Czfq3xZZDmsdGdUyrNLtRhGc47cXcZtLG4crryfu44zE")
)

func init() {
	var ok bool
	MaxSqrtPrice, ok = new(big.Int).SetString("79226673515401279992447579055", 10)
	if !ok {
		log.Fatal("cannot parse max sqrt price")
	}
}
