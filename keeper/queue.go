package keeper

import (
	"errors"

	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/types"
)

// SafeEnqueueCrystallization clears any scheduled crystallization entries for
// the fund and enqueues the start of its next high water mark cycle, so a
// fund never carries more than one schedule entry at a time.
//
// Funds without a high water mark fee have no crystallization cycle and are
// left unscheduled. Typically called after enabling fees or completing a
// settlement so the next cycle begins cleanly.
func (k *Keeper) SafeEnqueueCrystallization(ctx sdk.Context, fundID uint64) error {
	settings, err := k.HighWaterMarkFee.Settings.Get(ctx, fundID)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := k.CrystallizationQueue.RemoveAllForFund(ctx, fundID); err != nil {
		return err
	}

	next := feemath.NextCycleStart(ctx.BlockTime().Unix(), settings.CreatedTime, settings.PeriodSeconds)
	if err := k.CrystallizationQueue.Enqueue(ctx, next, fundID); err != nil {
		return err
	}

	k.emitEvent(ctx, types.NewEventCrystallizationScheduled(fundID, next))
	return nil
}
