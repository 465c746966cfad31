package tunagosdk

import "github.com/gagliardetto/solana-go"

func DeriveTunaConfigAddress() solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("tuna_config"),
		},
		TunaProgramId,
	)
	return pda
}

// DeriveMarketAddress returns the market account holding the risk parameters
// of pool.
func DeriveMarketAddress(pool solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("market"),
			pool.Bytes(),
		},
		TunaProgramId,
	)
	return pda
}

func DeriveVaultAddress(mint solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("vault"),
			mint.Bytes(),
		},
		TunaProgramId,
	)
	return pda
}

func DeriveLendingPositionAddress(authority, mint solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("lending_position"),
			authority.Bytes(),
			mint.Bytes(),
		},
		TunaProgramId,
	)
	return pda
}

// DeriveLpPositionAddress is keyed by the position NFT mint.
func DeriveLpPositionAddress(positionMint solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("tuna_position"),
			positionMint.Bytes(),
		},
		TunaProgramId,
	)
	return pda
}

func DeriveSpotPositionAddress(authority, pool solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{
			[]byte("tuna_spot_position"),
			authority.Bytes(),
			pool.Bytes(),
		},
		TunaProgramId,
	)
	return pda
}
