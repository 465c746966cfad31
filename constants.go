package tunagosdk

import "github.com/gagliardetto/solana-go"

var (
	// Tuna program ID.
	//  TunaProgramId = solana.MustPublicKeyFromBase58("tuna4uSQZncNeeiAMKbstuxA9CUkHH6HmC64wgmnogD")
	TunaProgramId = solana.MustPublicKeyFromBase58("tuna4uSQZncNeeiAMKbstuxA9CUkHH6HmC64wgmnogD")
)
