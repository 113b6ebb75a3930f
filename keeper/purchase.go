package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/types"
)

// BuyShares mints fund shares to the buyer against payment in an investable
// asset.
//
// The function performs the following:
//  1. Loads the fund and validates the share quantity.
//  2. Checks the payment asset against the fund allowlist and the asset
//     registry.
//  3. Settles milestone fees at the fund level, so the purchase prices
//     against a supply that carries all accrued fee shares. A settlement
//     failure aborts the purchase.
//  4. Prices the purchase, rounding against the buyer.
//  5. Transfers the payment into fund custody and mints the shares.
//
// Returns the payment coin charged.
func (k *Keeper) BuyShares(ctx sdk.Context, fundID uint64, buyer sdk.AccAddress, paymentDenom string, shares sdkmath.Int) (sdk.Coin, error) {
	fund, err := k.GetFund(ctx, fundID)
	if err != nil {
		return sdk.Coin{}, err
	}
	if !shares.IsPositive() {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidShareQuantity, "purchase of %s", shares)
	}
	if !fund.HasInvestableAsset(paymentDenom) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrAssetNotApproved, "%s is not on fund %d's allowlist", paymentDenom, fundID)
	}
	if !k.AssetRegistry.IsApprovedAsset(ctx, paymentDenom) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrAssetNotApproved, "%s declined by the asset registry", paymentDenom)
	}

	if _, err := k.settleFundFees(ctx, *fund, types.HookMilestone); err != nil {
		return sdk.Coin{}, err
	}

	cost, err := k.purchaseCost(ctx, *fund, paymentDenom, shares)
	if err != nil {
		return sdk.Coin{}, err
	}

	if err := k.BankKeeper.SendCoins(ctx, buyer, fund.GetAddress(), sdk.NewCoins(cost)); err != nil {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrTransferFailed, "payment of %s: %v", cost, err)
	}
	if err := k.mintShares(ctx, fundID, buyer, shares); err != nil {
		return sdk.Coin{}, err
	}

	k.emitEvent(ctx, types.NewEventSharesPurchased(fundID, buyer.String(), shares, cost))
	return cost, nil
}

// purchaseCost prices a share purchase in the payment asset. The value in
// denomination asset units is ceil(shares * gav / supply), so a buyer never
// pays less than the value of the shares received; the conversion into the
// payment asset rounds up again. With zero supply the fund is bootstrapping
// and one share costs one denomination asset unit.
func (k *Keeper) purchaseCost(ctx sdk.Context, fund types.Fund, paymentDenom string, shares sdkmath.Int) (sdk.Coin, error) {
	supply, err := k.GetTotalShares(ctx, fund.Id)
	if err != nil {
		return sdk.Coin{}, err
	}

	var value sdkmath.Int
	if supply.IsZero() {
		value = shares
	} else {
		gav, err := k.GrossAssetValue(ctx, fund)
		if err != nil {
			return sdk.Coin{}, err
		}
		if !gav.IsPositive() {
			return sdk.Coin{}, errorsmod.Wrapf(types.ErrNoValidPrice, "fund %d holds no valued assets", fund.Id)
		}
		value, err = feemath.MulDivCeil(shares, gav, supply)
		if err != nil {
			return sdk.Coin{}, err
		}
	}

	amount, err := k.assetAmountForValue(ctx, fund, paymentDenom, value)
	if err != nil {
		return sdk.Coin{}, err
	}
	return sdk.NewCoin(paymentDenom, amount), nil
}
