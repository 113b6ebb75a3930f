package types

import (
	fmt "fmt"

	"cosmossdk.io/collections"
	"github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "fund"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// GovModuleName duplicates the gov module's name to avoid a dependency with x/gov.
	// It should be synced with the gov module's name if it is ever changed.
	// See: https://github.com/cosmos/cosmos-sdk/blob/v0.52.0-beta.2/x/gov/types/keys.go#L9
	GovModuleName = "gov"
)

var (
	// FundSequenceKeyPrefix is the prefix for the fund id sequence.
	FundSequenceKeyPrefix = collections.NewPrefix(0)
	// FundSequenceName is a human-readable name for the fund id sequence.
	FundSequenceName = "fund_sequence"
	// FundsKeyPrefix is the prefix to retrieve all Funds.
	FundsKeyPrefix = collections.NewPrefix(1)
	// FundsName is a human-readable name for the funds collection.
	FundsName = "funds"
	// TotalSharesKeyPrefix is the prefix for per-fund share supply.
	TotalSharesKeyPrefix = collections.NewPrefix(2)
	// TotalSharesName is a human-readable name for the supply collection.
	TotalSharesName = "total_shares"
	// ShareBalancesKeyPrefix is the prefix for (fund, holder) share balances.
	ShareBalancesKeyPrefix = collections.NewPrefix(3)
	// ShareBalancesName is a human-readable name for the balances collection.
	ShareBalancesName = "share_balances"
	// EnabledFeesKeyPrefix is the prefix for (fund, fee id) enabled fee records.
	EnabledFeesKeyPrefix = collections.NewPrefix(4)
	// EnabledFeesName is a human-readable name for the enabled fees collection.
	EnabledFeesName = "enabled_fees"
	// TimeBasedFeeKeyPrefix is the prefix for time based fee settings.
	TimeBasedFeeKeyPrefix = collections.NewPrefix(5)
	// TimeBasedFeeName is a human-readable name for the time based fee settings.
	TimeBasedFeeName = "time_based_fee_settings"
	// HighWaterMarkFeeKeyPrefix is the prefix for high water mark fee settings.
	HighWaterMarkFeeKeyPrefix = collections.NewPrefix(6)
	// HighWaterMarkFeeName is a human-readable name for the high water mark fee settings.
	HighWaterMarkFeeName = "high_water_mark_fee_settings"
	// CrystallizationQueueKeyPrefix is the prefix for the (time, fund) crystallization schedule.
	CrystallizationQueueKeyPrefix = collections.NewPrefix(7)
	// CrystallizationQueueName is a human-readable name for the crystallization queue.
	CrystallizationQueueName = "crystallization_queue"
)

// GetFundAddress returns the module account address for the given fundID.
func GetFundAddress(fundID uint64) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(fmt.Sprintf("%s/%d", ModuleName, fundID))))
}
