package keeper

import (
	"context"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/types"
)

// EnableFees enables a batch of fees on a fund. Only the module authority may
// call. A fund's fee set is populated once and is immutable afterwards.
func (k *Keeper) EnableFees(ctx sdk.Context, authority string, fundID uint64, feeIDs []string, feeConfigs [][]byte) error {
	if k.authority != authority {
		return errorsmod.Wrapf(types.ErrUnauthorized, "invalid authority; expected %s, got %s", k.authority, authority)
	}
	fund, err := k.GetFund(ctx, fundID)
	if err != nil {
		return err
	}
	return k.enableFees(ctx, *fund, feeIDs, feeConfigs)
}

// enableFees validates and stores a fee batch. The batch is applied on a
// branched context: either every fee enables or none do.
func (k *Keeper) enableFees(ctx sdk.Context, fund types.Fund, feeIDs []string, feeConfigs [][]byte) error {
	if len(feeIDs) == 0 {
		return errorsmod.Wrap(types.ErrEmptyInput, "no fees to enable")
	}
	if len(feeIDs) != len(feeConfigs) {
		return errorsmod.Wrapf(types.ErrLengthMismatch, "%d fee ids, %d settings payloads", len(feeIDs), len(feeConfigs))
	}

	populated, err := k.hasEnabledFees(ctx, fund.Id)
	if err != nil {
		return err
	}
	if populated {
		return errorsmod.Wrapf(types.ErrFeeAlreadyEnabled, "fund %d fee set is immutable once populated", fund.Id)
	}

	cacheCtx, commit := ctx.CacheContext()
	seen := make(map[string]bool, len(feeIDs))
	for i, feeID := range feeIDs {
		if seen[feeID] {
			return errorsmod.Wrapf(types.ErrFeeAlreadyEnabled, "duplicate fee id %s in batch", feeID)
		}
		seen[feeID] = true

		mod, ok := k.feeModules[feeID]
		if !ok {
			return errorsmod.Wrapf(types.ErrUnknownFee, "%s", feeID)
		}
		if !k.FeeRegistry.IsApprovedFee(cacheCtx, feeID) {
			return errorsmod.Wrapf(types.ErrFeeNotApproved, "%s", feeID)
		}
		if err := mod.Initialize(cacheCtx, fund.Id, feeConfigs[i]); err != nil {
			return err
		}
		enabled := types.EnabledFee{FeeId: feeID, Hook: mod.Hook()}
		if err := k.EnabledFees.Set(cacheCtx, collections.Join(fund.Id, feeID), enabled); err != nil {
			return err
		}
	}

	if seen[types.HighWaterMarkFeeID] {
		if err := k.SafeEnqueueCrystallization(cacheCtx, fund.Id); err != nil {
			return err
		}
	}
	commit()

	k.emitEvent(ctx, types.NewEventFeesEnabled(fund.Id, feeIDs))
	return nil
}

// hasEnabledFees reports whether any fee is enabled on the fund.
func (k Keeper) hasEnabledFees(ctx context.Context, fundID uint64) (bool, error) {
	populated := false
	rng := collections.NewPrefixedPairRange[uint64, string](fundID)
	err := k.EnabledFees.Walk(ctx, rng, func(_ collections.Pair[uint64, string], _ types.EnabledFee) (bool, error) {
		populated = true
		return true, nil
	})
	return populated, err
}

// settleFundFees settles every enabled fee on the hook at the fund level,
// minting the due shares to the manager. The share supply is re-read before
// each fee so later fees price against the post-mint supply. Returns the
// total shares minted.
func (k *Keeper) settleFundFees(ctx sdk.Context, fund types.Fund, hook types.FeeHook) (sdkmath.Int, error) {
	manager, err := sdk.AccAddressFromBech32(fund.Manager)
	if err != nil {
		return sdkmath.Int{}, err
	}

	total := sdkmath.ZeroInt()
	rng := collections.NewPrefixedPairRange[uint64, string](fund.Id)
	err = k.EnabledFees.Walk(ctx, rng, func(_ collections.Pair[uint64, string], enabled types.EnabledFee) (bool, error) {
		if enabled.Hook != hook {
			return false, nil
		}
		mod, ok := k.feeModules[enabled.FeeId]
		if !ok {
			return false, errorsmod.Wrapf(types.ErrUnknownFee, "%s", enabled.FeeId)
		}

		supply, err := k.GetTotalShares(ctx, fund.Id)
		if err != nil {
			return false, err
		}
		due, err := mod.SharesDueForFund(ctx, fund, supply)
		if err != nil {
			return false, err
		}
		if due.IsZero() {
			return false, nil
		}
		if err := k.mintShares(ctx, fund.Id, manager, due); err != nil {
			return false, err
		}
		total, err = feemath.SafeAdd(total, due)
		if err != nil {
			return false, err
		}
		k.emitEvent(ctx, types.NewEventFeeSettled(fund.Id, enabled.FeeId, enabled.Hook, due, fund.Manager))
		return false, nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return total, nil
}

// settleAllFundFees settles the fund's fees on both hooks, milestone first so
// exit fees price against a supply that already carries the accrued
// management shares.
func (k *Keeper) settleAllFundFees(ctx sdk.Context, fund types.Fund) (sdkmath.Int, error) {
	milestone, err := k.settleFundFees(ctx, fund, types.HookMilestone)
	if err != nil {
		return sdkmath.Int{}, err
	}
	exit, err := k.settleFundFees(ctx, fund, types.HookExit)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return feemath.SafeAdd(milestone, exit)
}

// settleInvestorFees sums the raw shares a single holding owes across the
// enabled fees on the hook. Read-only: nothing is minted or reallocated here.
func (k Keeper) settleInvestorFees(ctx sdk.Context, fund types.Fund, hook types.FeeHook, shares sdkmath.Int) (sdkmath.Int, error) {
	supply, err := k.GetTotalShares(ctx, fund.Id)
	if err != nil {
		return sdkmath.Int{}, err
	}

	total := sdkmath.ZeroInt()
	rng := collections.NewPrefixedPairRange[uint64, string](fund.Id)
	err = k.EnabledFees.Walk(ctx, rng, func(_ collections.Pair[uint64, string], enabled types.EnabledFee) (bool, error) {
		if enabled.Hook != hook {
			return false, nil
		}
		mod, ok := k.feeModules[enabled.FeeId]
		if !ok {
			return false, errorsmod.Wrapf(types.ErrUnknownFee, "%s", enabled.FeeId)
		}
		due, err := mod.SharesDueForInvestor(ctx, fund, supply, shares)
		if err != nil {
			return false, err
		}
		total, err = feemath.SafeAdd(total, due)
		return false, err
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return total, nil
}

// PayoutFees settles every fee enabled on the fund at the fund level and
// reschedules the fund's crystallization entry. Permissionless: anyone may
// trigger a settlement, the minted shares always go to the manager. Returns
// the total shares minted.
func (k *Keeper) PayoutFees(ctx sdk.Context, fundID uint64) (sdkmath.Int, error) {
	fund, err := k.GetFund(ctx, fundID)
	if err != nil {
		return sdkmath.Int{}, err
	}
	total, err := k.settleAllFundFees(ctx, *fund)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.SafeEnqueueCrystallization(ctx, fundID); err != nil {
		return sdkmath.Int{}, err
	}

	k.emitEvent(ctx, types.NewEventFeesPayout(fundID, total))
	return total, nil
}
