package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "crp"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// ShareDenomPrefix prefixes the denom of every pool share token
	ShareDenomPrefix = ModuleName + "/"
)

// Store key prefixes
var (
	PoolKey          = []byte{0x01} // prefix for pool records
	PoolCountKey     = []byte{0x02} // key for the next pool id
	GradualUpdateKey = []byte{0x03} // prefix for active weight schedules
	CommitmentKey    = []byte{0x04} // prefix for pending token commitments
	WhitelistKey     = []byte{0x05} // prefix for whitelisted liquidity providers
	ParamsKey        = []byte{0x06} // key for module params
	LockKey          = []byte{0x07} // prefix for per-pool operation locks
)

// GetPoolKey returns the store key for a pool
func GetPoolKey(poolID uint64) []byte {
	return append(append([]byte{}, PoolKey...), sdk.Uint64ToBigEndian(poolID)...)
}

// GetGradualUpdateKey returns the store key for a pool's weight schedule
func GetGradualUpdateKey(poolID uint64) []byte {
	return append(append([]byte{}, GradualUpdateKey...), sdk.Uint64ToBigEndian(poolID)...)
}

// GetCommitmentKey returns the store key for a pool's pending token commitment
func GetCommitmentKey(poolID uint64) []byte {
	return append(append([]byte{}, CommitmentKey...), sdk.Uint64ToBigEndian(poolID)...)
}

// GetWhitelistPrefix returns the prefix of a pool's whitelist entries
func GetWhitelistPrefix(poolID uint64) []byte {
	return append(append([]byte{}, WhitelistKey...), sdk.Uint64ToBigEndian(poolID)...)
}

// GetWhitelistKey returns the store key for a whitelisted provider
func GetWhitelistKey(poolID uint64, provider sdk.AccAddress) []byte {
	return append(GetWhitelistPrefix(poolID), address.MustLengthPrefix(provider)...)
}

// GetLockKey returns the store key for a pool's operation lock
func GetLockKey(poolID uint64) []byte {
	return append(append([]byte{}, LockKey...), sdk.Uint64ToBigEndian(poolID)...)
}

// ShareDenom returns the denom of a pool's share token.
func ShareDenom(poolID uint64) string {
	return fmt.Sprintf("%s%d", ShareDenomPrefix, poolID)
}

// PoolAddress returns the account a pool controller uses to hold tokens in
// transit between the controller and the underlying pool.
func PoolAddress(poolID uint64) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, sdk.Uint64ToBigEndian(poolID)))
}
