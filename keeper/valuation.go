package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/types"
)

// UnitPriceFraction returns a price ratio (num, den) expressing how many
// units of the fund's denomination asset one unit of asset is worth, derived
// from the oracle quote.
//
// Semantics:
//   - AssetPrice.Price is the total value (in the quote denom) for
//     AssetPrice.Volume units of asset.
//   - Therefore, unit price = Price.Amount / Volume as an integer fraction.
//
// Special cases and errors:
//   - If asset is the denomination asset itself, returns (1, 1).
//   - Errors with ErrNoValidPrice when the oracle has no quote, quotes in a
//     different denom, or reports a non-positive price or zero volume.
func (k Keeper) UnitPriceFraction(ctx sdk.Context, fund types.Fund, asset string) (num, den sdkmath.Int, err error) {
	if asset == fund.DenomAsset {
		return sdkmath.OneInt(), sdkmath.OneInt(), nil
	}
	quote, err := k.PriceKeeper.GetAssetPrice(ctx, asset, fund.DenomAsset)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrapf(types.ErrNoValidPrice, "%s/%s: %v", asset, fund.DenomAsset, err)
	}
	if quote.Price.Denom != fund.DenomAsset {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrapf(types.ErrNoValidPrice, "quote for %s is in %s, not %s", asset, quote.Price.Denom, fund.DenomAsset)
	}
	if !quote.Price.Amount.IsPositive() || quote.Volume == 0 {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrapf(types.ErrNoValidPrice, "degenerate quote for %s/%s", asset, fund.DenomAsset)
	}
	return quote.Price.Amount, sdkmath.NewIntFromUint64(quote.Volume), nil
}

// GrossAssetValue values the fund's custodied basket in denomination asset
// units. Each balance converts at floor(amount * num / den); the sum is
// checked for overflow. An unpriceable asset fails the whole valuation.
func (k *Keeper) GrossAssetValue(ctx context.Context, fund types.Fund) (sdkmath.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	balances := k.BankKeeper.GetAllBalances(sdkCtx, fund.GetAddress())

	total := sdkmath.ZeroInt()
	for _, balance := range balances {
		num, den, err := k.UnitPriceFraction(sdkCtx, fund, balance.Denom)
		if err != nil {
			return sdkmath.Int{}, err
		}
		value, err := feemath.MulDivFloor(balance.Amount, num, den)
		if err != nil {
			return sdkmath.Int{}, err
		}
		total, err = feemath.SafeAdd(total, value)
		if err != nil {
			return sdkmath.Int{}, err
		}
	}
	return total, nil
}

// assetAmountForValue converts a value in denomination asset units into an
// amount of asset using the reciprocal of UnitPriceFraction, rounding up so
// the fund never receives less than the value charged.
func (k Keeper) assetAmountForValue(ctx sdk.Context, fund types.Fund, asset string, value sdkmath.Int) (sdkmath.Int, error) {
	num, den, err := k.UnitPriceFraction(ctx, fund, asset)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return feemath.MulDivCeil(value, den, num)
}
