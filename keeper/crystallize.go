package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/types"
)

// processCrystallizations settles funds whose crystallization time has
// arrived and schedules their next cycle. Individual fund failures are
// logged and skipped; each settlement runs on a branched context so a
// failure never leaves a half-settled fund behind.
//
// This is intended to run during EndBlock and ignores individual fund errors.
func (k *Keeper) processCrystallizations(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()

	var processed []collections.Pair[int64, uint64]
	err := k.CrystallizationQueue.WalkDue(ctx, now, func(at int64, fundID uint64) (bool, error) {
		processed = append(processed, collections.Join(at, fundID))
		return false, nil
	})
	if err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}

	for _, key := range processed {
		if err := k.CrystallizationQueue.Dequeue(ctx, key.K1(), key.K2()); err != nil {
			sdkCtx.Logger().Error("failed to remove processed crystallization", "err", err)
			continue
		}

		fundID := key.K2()
		fund, ok := k.tryGetFund(sdkCtx, fundID)
		if !ok {
			continue
		}

		cacheCtx, commit := sdkCtx.CacheContext()
		if _, err := k.settleAllFundFees(cacheCtx, *fund); err != nil {
			sdkCtx.Logger().Error("failed to settle fees at crystallization", "fund", fundID, "err", err)
		} else {
			commit()
		}

		if err := k.SafeEnqueueCrystallization(sdkCtx, fundID); err != nil {
			sdkCtx.Logger().Error("failed to reschedule crystallization", "fund", fundID, "err", err)
		}
	}
	return nil
}

// tryGetFund returns the fund if found, or false when missing. It should only
// be used in EndBlocker logic where failure is non-critical.
func (k *Keeper) tryGetFund(ctx sdk.Context, fundID uint64) (*types.Fund, bool) {
	fund, err := k.GetFund(ctx, fundID)
	if err != nil {
		ctx.Logger().Error("failed to get fund", "fund", fundID, "error", err)
		return nil, false
	}
	return fund, true
}
