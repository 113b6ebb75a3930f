package fees

import (
	"context"
	"encoding/json"

	"cosmossdk.io/collections"
	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/types"
)

// TimeBasedFee accrues a fixed annual rate on the share supply for the time
// elapsed since the last settlement. It settles on the milestone hook so
// accruals mint before any operation that changes the supply.
type TimeBasedFee struct {
	// Settings holds the per-fund fee state keyed by fund id.
	Settings collections.Map[uint64, types.TimeBasedFeeSettings]
}

var _ Module = (*TimeBasedFee)(nil)

// NewTimeBasedFee creates a new TimeBasedFee over the given schema builder.
func NewTimeBasedFee(builder *collections.SchemaBuilder) *TimeBasedFee {
	return &TimeBasedFee{
		Settings: collections.NewMap(
			builder,
			types.TimeBasedFeeKeyPrefix,
			types.TimeBasedFeeName,
			collections.Uint64Key,
			types.JSONValue[types.TimeBasedFeeSettings](types.TimeBasedFeeName),
		),
	}
}

// ID returns the identifier stored in enabled fee records.
func (f *TimeBasedFee) ID() string { return types.TimeBasedFeeID }

// Hook returns the settlement point the module participates in.
func (f *TimeBasedFee) Hook() types.FeeHook { return types.HookMilestone }

// Initialize parses and validates the enable payload and writes the fund's
// initial settings. Accrual starts at the current block time.
func (f *TimeBasedFee) Initialize(ctx context.Context, fundID uint64, config []byte) error {
	var cfg types.TimeBasedFeeConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return errors.Wrapf(types.ErrInvalidSettings, "time based fee config: %v", err)
	}
	settings := types.TimeBasedFeeSettings{
		Rate:         cfg.Rate,
		LastPaidTime: sdk.UnwrapSDKContext(ctx).BlockTime().Unix(),
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	return f.Settings.Set(ctx, fundID, settings)
}

// SharesDueForFund accrues the fee on the full supply since the last
// settlement and returns the dilution-adjusted shares to mint.
//
// A settlement that mints advances the last paid time. Zero accrual leaves
// state untouched so sub-share spans keep accruing. When the dilution
// adjustment skips the fee (accrual at or above the supply), the last paid
// time still advances and the span is forfeited.
func (f *TimeBasedFee) SharesDueForFund(ctx context.Context, fund types.Fund, supply sdkmath.Int) (sdkmath.Int, error) {
	settings, err := f.Settings.Get(ctx, fund.Id)
	if err != nil {
		return sdkmath.Int{}, err
	}

	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	elapsed := now - settings.LastPaidTime
	if elapsed <= 0 {
		return sdkmath.ZeroInt(), nil
	}

	rate, err := types.ValidateFeeRate(settings.Rate)
	if err != nil {
		return sdkmath.Int{}, err
	}
	raw, err := feemath.ProRataShares(supply, rate, elapsed)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if raw.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	minted, skipped, err := feemath.DiluteShares(raw, supply)
	if err != nil {
		return sdkmath.Int{}, err
	}

	settings.LastPaidTime = now
	if err := f.Settings.Set(ctx, fund.Id, settings); err != nil {
		return sdkmath.Int{}, err
	}

	if skipped {
		feeLogger(ctx).Info("accrued fee meets or exceeds supply, skipping settlement",
			"fund", fund.Id, "fee", f.ID(), "raw_shares", raw.String(), "supply", supply.String())
		return sdkmath.ZeroInt(), nil
	}
	return minted, nil
}

// SharesDueForInvestor accrues the fee on a single holding over the same span
// the fund-level settlement would cover, without touching state.
func (f *TimeBasedFee) SharesDueForInvestor(ctx context.Context, fund types.Fund, supply, shares sdkmath.Int) (sdkmath.Int, error) {
	settings, err := f.Settings.Get(ctx, fund.Id)
	if err != nil {
		return sdkmath.Int{}, err
	}

	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	elapsed := now - settings.LastPaidTime
	if elapsed <= 0 {
		return sdkmath.ZeroInt(), nil
	}

	rate, err := types.ValidateFeeRate(settings.Rate)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return feemath.ProRataShares(shares, rate, elapsed)
}
