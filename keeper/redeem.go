package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/types"
)

// RedeemShares redeems an investor's shares for a pro rata slice of every
// asset the fund custodies. The whole redemption runs on a branched context
// committed only on success.
//
// The function performs the following:
//  1. Loads the fund and checks the redeemer's balance covers the quantity.
//  2. Settles milestone fees at the fund level, best-effort: a failure is
//     logged and the redemption proceeds on the unsettled state.
//  3. Charges investor-level fees on the departing holding, best-effort:
//     owed shares move to the manager only when the balance left after the
//     redemption covers them.
//  4. Burns the shares against a supply snapshot taken before the burn.
//  5. Pays out floor(held * shares / preSupply) of each custodied asset.
//     A failed transfer aborts the redemption, unless the redeemer opted to
//     bypass failures, in which case that single payout is forfeited to the
//     fund and the rest proceed.
//
// Returns the coins actually paid out.
func (k *Keeper) RedeemShares(ctx sdk.Context, fundID uint64, redeemer sdk.AccAddress, shares sdkmath.Int, bypassTransferFailure bool) (sdk.Coins, error) {
	fund, err := k.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	balance, err := k.GetShareBalance(ctx, fundID, redeemer)
	if err != nil {
		return nil, err
	}
	if !shares.IsPositive() || balance.LT(shares) {
		return nil, errorsmod.Wrapf(types.ErrInsufficientShares, "redeem %s with balance %s", shares, balance)
	}

	cacheCtx, commit := ctx.CacheContext()

	settleCtx, settleCommit := cacheCtx.CacheContext()
	if _, err := k.settleFundFees(settleCtx, *fund, types.HookMilestone); err != nil {
		k.getLogger(ctx).Error("skipping fund fee settlement during redemption", "fund", fundID, "err", err)
	} else {
		settleCommit()
	}

	if fund.Manager != redeemer.String() {
		if err := k.payInvestorFees(cacheCtx, *fund, redeemer, shares); err != nil {
			k.getLogger(ctx).Error("skipping investor fee settlement during redemption", "fund", fundID, "redeemer", redeemer.String(), "err", err)
		}
	}

	preSupply, err := k.GetTotalShares(cacheCtx, fundID)
	if err != nil {
		return nil, err
	}
	if err := k.burnShares(cacheCtx, fundID, redeemer, shares); err != nil {
		return nil, err
	}

	paid := sdk.NewCoins()
	fundAddr := fund.GetAddress()
	for _, held := range k.BankKeeper.GetAllBalances(cacheCtx, fundAddr) {
		amount, err := feemath.MulDivFloor(held.Amount, shares, preSupply)
		if err != nil {
			return nil, err
		}
		if amount.IsZero() {
			continue
		}
		payout := sdk.NewCoin(held.Denom, amount)

		payCtx, payCommit := cacheCtx.CacheContext()
		if err := k.BankKeeper.SendCoins(payCtx, fundAddr, redeemer, sdk.NewCoins(payout)); err != nil {
			if !bypassTransferFailure {
				return nil, errorsmod.Wrapf(types.ErrTransferFailed, "payout of %s: %v", payout, err)
			}
			k.getLogger(ctx).Error("forfeiting failed redemption payout", "fund", fundID, "redeemer", redeemer.String(), "payout", payout.String(), "err", err)
			k.emitEvent(cacheCtx, types.NewEventPayoutForfeited(fundID, redeemer.String(), payout, err.Error()))
			continue
		}
		payCommit()
		paid = paid.Add(payout)
	}

	k.emitEvent(cacheCtx, types.NewEventSharesRedeemed(fundID, redeemer.String(), shares, paid))
	commit()
	return paid, nil
}

// RedeemAllShares redeems the redeemer's entire holding in the fund.
func (k *Keeper) RedeemAllShares(ctx sdk.Context, fundID uint64, redeemer sdk.AccAddress, bypassTransferFailure bool) (sdk.Coins, error) {
	balance, err := k.GetShareBalance(ctx, fundID, redeemer)
	if err != nil {
		return nil, err
	}
	return k.RedeemShares(ctx, fundID, redeemer, balance, bypassTransferFailure)
}

// payInvestorFees charges the fees a departing holding owes by reallocating
// shares from the redeemer to the manager. The fees come out of the balance
// the redeemer keeps, so they are charged only when that remainder covers
// them. Runs on its own branch; on error nothing has been committed.
func (k *Keeper) payInvestorFees(ctx sdk.Context, fund types.Fund, redeemer sdk.AccAddress, shares sdkmath.Int) error {
	cacheCtx, commit := ctx.CacheContext()

	milestone, err := k.settleInvestorFees(cacheCtx, fund, types.HookMilestone, shares)
	if err != nil {
		return err
	}
	exit, err := k.settleInvestorFees(cacheCtx, fund, types.HookExit, shares)
	if err != nil {
		return err
	}
	owed, err := feemath.SafeAdd(milestone, exit)
	if err != nil {
		return err
	}
	if owed.IsZero() {
		return nil
	}

	balance, err := k.GetShareBalance(cacheCtx, fund.Id, redeemer)
	if err != nil {
		return err
	}
	if balance.Sub(shares).LT(owed) {
		k.getLogger(ctx).Info("remaining balance cannot cover investor fees, skipping", "fund", fund.Id, "redeemer", redeemer.String(), "owed", owed.String())
		return nil
	}
	manager, err := sdk.AccAddressFromBech32(fund.Manager)
	if err != nil {
		return err
	}
	if err := k.reallocateShares(cacheCtx, fund.Id, redeemer, manager, owed); err != nil {
		return err
	}
	commit()

	k.emitEvent(ctx, types.NewEventInvestorFeeSettled(fund.Id, redeemer.String(), owed))
	return nil
}
