package types

import (
	fmt "fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the fund module's genesis state.
type GenesisState struct {
	// FundSequence is the next fund id to allocate.
	FundSequence uint64 `json:"fund_sequence"`
	// Funds holds every fund with its ledger and fee state.
	Funds []FundGenesis `json:"funds,omitempty"`
}

// FundGenesis is the complete exported state of a single fund.
type FundGenesis struct {
	Fund Fund `json:"fund"`
	// TotalShares is the fund's share supply.
	TotalShares sdkmath.Int `json:"total_shares"`
	// Balances are the per-holder share balances; they sum to TotalShares.
	Balances []ShareBalance `json:"balances,omitempty"`
	// EnabledFees are the fee references enabled on the fund.
	EnabledFees []EnabledFee `json:"enabled_fees,omitempty"`
	// TimeBasedFee holds the time based fee settings when that fee is enabled.
	TimeBasedFee *TimeBasedFeeSettings `json:"time_based_fee,omitempty"`
	// HighWaterMarkFee holds the high water mark fee settings when that fee is enabled.
	HighWaterMarkFee *HighWaterMarkFeeSettings `json:"high_water_mark_fee,omitempty"`
	// NextCrystallization is the queued crystallization time, zero when none.
	NextCrystallization int64 `json:"next_crystallization,omitempty"`
}

// ShareBalance is one holder's share balance in a fund.
type ShareBalance struct {
	Holder string      `json:"holder"`
	Shares sdkmath.Int `json:"shares"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	seenIDs := make(map[uint64]bool, len(gs.Funds))
	for _, fg := range gs.Funds {
		if err := fg.Validate(); err != nil {
			return fmt.Errorf("fund %d: %w", fg.Fund.Id, err)
		}
		if fg.Fund.Id >= gs.FundSequence {
			return fmt.Errorf("fund id %d not below fund sequence %d", fg.Fund.Id, gs.FundSequence)
		}
		if seenIDs[fg.Fund.Id] {
			return fmt.Errorf("duplicate fund id %d", fg.Fund.Id)
		}
		seenIDs[fg.Fund.Id] = true
	}
	return nil
}

// Validate checks a single fund's genesis state for internal consistency.
func (fg FundGenesis) Validate() error {
	if err := fg.Fund.Validate(); err != nil {
		return err
	}
	if fg.TotalShares.IsNil() || fg.TotalShares.IsNegative() {
		return fmt.Errorf("invalid total shares")
	}

	sum := sdkmath.ZeroInt()
	seenHolders := make(map[string]bool, len(fg.Balances))
	for _, bal := range fg.Balances {
		if _, err := sdk.AccAddressFromBech32(bal.Holder); err != nil {
			return fmt.Errorf("invalid share holder address %q: %w", bal.Holder, err)
		}
		if seenHolders[bal.Holder] {
			return fmt.Errorf("duplicate share holder %s", bal.Holder)
		}
		seenHolders[bal.Holder] = true
		if bal.Shares.IsNil() || !bal.Shares.IsPositive() {
			return fmt.Errorf("share balance for %s must be positive", bal.Holder)
		}
		sum = sum.Add(bal.Shares)
	}
	if !sum.Equal(fg.TotalShares) {
		return fmt.Errorf("share balances sum %s does not match total shares %s", sum, fg.TotalShares)
	}

	seenFees := make(map[string]bool, len(fg.EnabledFees))
	for _, ef := range fg.EnabledFees {
		if seenFees[ef.FeeId] {
			return fmt.Errorf("duplicate enabled fee %s", ef.FeeId)
		}
		seenFees[ef.FeeId] = true
		switch ef.FeeId {
		case TimeBasedFeeID:
			if ef.Hook != HookMilestone {
				return fmt.Errorf("time based fee must use the milestone hook, got %s", ef.Hook)
			}
			if fg.TimeBasedFee == nil {
				return fmt.Errorf("time based fee enabled without settings")
			}
		case HighWaterMarkFeeID:
			if ef.Hook != HookExit {
				return fmt.Errorf("high water mark fee must use the exit hook, got %s", ef.Hook)
			}
			if fg.HighWaterMarkFee == nil {
				return fmt.Errorf("high water mark fee enabled without settings")
			}
		default:
			return fmt.Errorf("unknown fee id %s", ef.FeeId)
		}
	}
	if fg.TimeBasedFee != nil {
		if !seenFees[TimeBasedFeeID] {
			return fmt.Errorf("time based fee settings present but fee not enabled")
		}
		if err := fg.TimeBasedFee.Validate(); err != nil {
			return err
		}
	}
	if fg.HighWaterMarkFee != nil {
		if !seenFees[HighWaterMarkFeeID] {
			return fmt.Errorf("high water mark fee settings present but fee not enabled")
		}
		if err := fg.HighWaterMarkFee.Validate(); err != nil {
			return err
		}
	}
	if fg.NextCrystallization < 0 {
		return fmt.Errorf("negative crystallization time %d", fg.NextCrystallization)
	}
	if fg.NextCrystallization > 0 && fg.HighWaterMarkFee == nil {
		return fmt.Errorf("crystallization queued without a high water mark fee")
	}
	return nil
}
