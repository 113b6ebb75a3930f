package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/types"
)

// GetTotalShares returns the fund's share supply, zero when no shares exist.
func (k Keeper) GetTotalShares(ctx context.Context, fundID uint64) (sdkmath.Int, error) {
	supply, err := k.TotalShares.Get(ctx, fundID)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	return supply, nil
}

// GetShareBalance returns the holder's share balance in the fund, zero when
// the holder has no entry.
func (k Keeper) GetShareBalance(ctx context.Context, fundID uint64, holder sdk.AccAddress) (sdkmath.Int, error) {
	balance, err := k.ShareBalances.Get(ctx, collections.Join(fundID, holder))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	return balance, nil
}

// mintShares credits newly issued shares to the recipient and grows the
// supply by the same amount.
func (k Keeper) mintShares(ctx context.Context, fundID uint64, to sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidShareQuantity, "mint of %s", amount)
	}

	balance, err := k.GetShareBalance(ctx, fundID, to)
	if err != nil {
		return err
	}
	balance, err = feemath.SafeAdd(balance, amount)
	if err != nil {
		return err
	}
	if err := k.ShareBalances.Set(ctx, collections.Join(fundID, to), balance); err != nil {
		return err
	}

	supply, err := k.GetTotalShares(ctx, fundID)
	if err != nil {
		return err
	}
	supply, err = feemath.SafeAdd(supply, amount)
	if err != nil {
		return err
	}
	return k.TotalShares.Set(ctx, fundID, supply)
}

// burnShares removes shares from the holder and shrinks the supply. Zeroed
// entries are deleted.
func (k Keeper) burnShares(ctx context.Context, fundID uint64, holder sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidShareQuantity, "burn of %s", amount)
	}

	balance, err := k.GetShareBalance(ctx, fundID, holder)
	if err != nil {
		return err
	}
	if balance.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientShares, "burn %s with balance %s", amount, balance)
	}
	if err := k.setShareBalance(ctx, fundID, holder, balance.Sub(amount)); err != nil {
		return err
	}

	supply, err := k.GetTotalShares(ctx, fundID)
	if err != nil {
		return err
	}
	supply, err = feemath.SafeSub(supply, amount)
	if err != nil {
		return err
	}
	if supply.IsZero() {
		return k.TotalShares.Remove(ctx, fundID)
	}
	return k.TotalShares.Set(ctx, fundID, supply)
}

// reallocateShares moves shares from one holder to another at constant
// supply.
func (k Keeper) reallocateShares(ctx context.Context, fundID uint64, from, to sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidShareQuantity, "reallocation of %s", amount)
	}

	fromBalance, err := k.GetShareBalance(ctx, fundID, from)
	if err != nil {
		return err
	}
	if fromBalance.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientShares, "reallocate %s with balance %s", amount, fromBalance)
	}
	if err := k.setShareBalance(ctx, fundID, from, fromBalance.Sub(amount)); err != nil {
		return err
	}

	toBalance, err := k.GetShareBalance(ctx, fundID, to)
	if err != nil {
		return err
	}
	toBalance, err = feemath.SafeAdd(toBalance, amount)
	if err != nil {
		return err
	}
	return k.ShareBalances.Set(ctx, collections.Join(fundID, to), toBalance)
}

// setShareBalance writes a holder's balance, deleting the entry when it
// reaches zero.
func (k Keeper) setShareBalance(ctx context.Context, fundID uint64, holder sdk.AccAddress, balance sdkmath.Int) error {
	if balance.IsZero() {
		return k.ShareBalances.Remove(ctx, collections.Join(fundID, holder))
	}
	return k.ShareBalances.Set(ctx, collections.Join(fundID, holder), balance)
}
