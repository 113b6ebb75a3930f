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

// HighWaterMarkFee takes a cut of the gain the share price has made above its
// highest settled level. Fund-level settlement is gated to a crystallization
// window at the start of each cycle; it settles on the exit hook so departing
// investors pay their accrued share first.
type HighWaterMarkFee struct {
	// Settings holds the per-fund fee state keyed by fund id.
	Settings collections.Map[uint64, types.HighWaterMarkFeeSettings]

	valuer GAVSource
}

var _ Module = (*HighWaterMarkFee)(nil)

// NewHighWaterMarkFee creates a new HighWaterMarkFee over the given schema
// builder, valuing fund baskets through the given source.
func NewHighWaterMarkFee(builder *collections.SchemaBuilder, valuer GAVSource) *HighWaterMarkFee {
	return &HighWaterMarkFee{
		Settings: collections.NewMap(
			builder,
			types.HighWaterMarkFeeKeyPrefix,
			types.HighWaterMarkFeeName,
			collections.Uint64Key,
			types.JSONValue[types.HighWaterMarkFeeSettings](types.HighWaterMarkFeeName),
		),
		valuer: valuer,
	}
}

// ID returns the identifier stored in enabled fee records.
func (f *HighWaterMarkFee) ID() string { return types.HighWaterMarkFeeID }

// Hook returns the settlement point the module participates in.
func (f *HighWaterMarkFee) Hook() types.FeeHook { return types.HookExit }

// Initialize parses and validates the enable payload and writes the fund's
// initial settings. Cycles are measured from the current block time and the
// mark starts at one denomination unit per share.
func (f *HighWaterMarkFee) Initialize(ctx context.Context, fundID uint64, config []byte) error {
	var cfg types.HighWaterMarkFeeConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return errors.Wrapf(types.ErrInvalidSettings, "high water mark fee config: %v", err)
	}
	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	settings := types.HighWaterMarkFeeSettings{
		Rate:          cfg.Rate,
		PeriodSeconds: cfg.PeriodSeconds,
		CreatedTime:   now,
		LastPaidTime:  now,
		HighWaterMark: feemath.SharePriceScalar,
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	return f.Settings.Set(ctx, fundID, settings)
}

// SharesDueForFund settles the fee at the fund level and returns the
// dilution-adjusted shares to mint.
//
// Settlement only happens inside the crystallization window at the start of a
// cycle, at most once per cycle. A settlement that mints ratchets the mark to
// the current share price and advances the last paid time; every other outcome
// (window closed, nothing to value, no gain, dilution skip) leaves state
// untouched, so a skipped fee can retry while the window is open.
func (f *HighWaterMarkFee) SharesDueForFund(ctx context.Context, fund types.Fund, supply sdkmath.Int) (sdkmath.Int, error) {
	settings, err := f.Settings.Get(ctx, fund.Id)
	if err != nil {
		return sdkmath.Int{}, err
	}

	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	if !feemath.SettlementDue(now, settings.CreatedTime, settings.PeriodSeconds, settings.LastPaidTime) {
		return sdkmath.ZeroInt(), nil
	}

	raw, price, err := f.sharesDue(ctx, fund, supply, supply, settings)
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
	if skipped {
		feeLogger(ctx).Info("accrued fee meets or exceeds supply, skipping settlement",
			"fund", fund.Id, "fee", f.ID(), "raw_shares", raw.String(), "supply", supply.String())
		return sdkmath.ZeroInt(), nil
	}

	settings.HighWaterMark = price
	settings.LastPaidTime = now
	if err := f.Settings.Set(ctx, fund.Id, settings); err != nil {
		return sdkmath.Int{}, err
	}
	return minted, nil
}

// SharesDueForInvestor returns the raw shares a single holding owes on its
// gain above the mark. There is no window gate and no state mutation; the
// conversion back into shares prices at the fund-wide value per share.
func (f *HighWaterMarkFee) SharesDueForInvestor(ctx context.Context, fund types.Fund, supply, shares sdkmath.Int) (sdkmath.Int, error) {
	settings, err := f.Settings.Get(ctx, fund.Id)
	if err != nil {
		return sdkmath.Int{}, err
	}
	raw, _, err := f.sharesDue(ctx, fund, supply, shares, settings)
	return raw, err
}

// sharesDue values the fund and computes the raw fee on a holding's gain above
// the mark. A fund that cannot be priced (zero supply or zero value) owes
// nothing. Returns the raw shares and the current share price.
func (f *HighWaterMarkFee) sharesDue(ctx context.Context, fund types.Fund, supply, holding sdkmath.Int, settings types.HighWaterMarkFeeSettings) (sdkmath.Int, sdkmath.Int, error) {
	if !supply.IsPositive() {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), nil
	}
	gav, err := f.valuer.GrossAssetValue(ctx, fund)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	if !gav.IsPositive() {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), nil
	}

	price, err := feemath.SharePrice(gav, supply)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	rate, err := types.ValidateFeeRate(settings.Rate)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	raw, err := feemath.PerformanceShares(gav, supply, holding, price, settings.HighWaterMark, rate)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return raw, price, nil
}
