package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketlabs/fund/testutil"
	"github.com/basketlabs/fund/types"
)

func TestEndBlocker_SettlesDueCrystallization(t *testing.T) {
	env := testutil.NewEnv(t)
	feeIDs, feeConfigs := hwmBatch("0.2", hwmPeriod)
	fund, manager := newManagedFund(t, env, feeIDs, feeConfigs)

	investor := newFundedAccount(t, env, sdk.NewCoins(sdk.NewInt64Coin(denomAsset, 10_000)))
	buyShares(t, env, env.Ctx, fund.Id, investor, 10_000)
	env.FundAccount(t, fund.GetAddress(), sdk.NewCoins(sdk.NewInt64Coin(denomAsset, 10_000)))

	ctx := env.At(hwmPeriod).WithEventManager(sdk.NewEventManager())
	require.NoError(t, env.Keeper.EndBlocker(ctx))

	// Basket value 20_000 against 10_000 shares doubles the share price. The
	// 2_000 value fee converts to 1_000 raw shares and mints as 1_111 after
	// dilution.
	assert.Equal(t, int64(1_111), shareBalance(t, env, fund.Id, manager).Int64(),
		"the crystallized fee should mint to the manager")
	assert.Equal(t, int64(11_111), totalShares(t, env, fund.Id).Int64())
	requireLedgerBalanced(t, env, fund.Id)

	settings, err := env.Keeper.HighWaterMarkFee.Settings.Get(env.Ctx, fund.Id)
	require.NoError(t, err)
	assert.Equal(t, "2000000", settings.HighWaterMark.String(), "the mark should rise to the settled price")
	assert.Equal(t, testutil.BaseTime+hwmPeriod, settings.LastPaidTime)

	assert.Equal(t, []queueEntry{{at: testutil.BaseTime + 2*hwmPeriod, fundID: fund.Id}}, queueEntries(t, env),
		"the fund should be rescheduled for the next cycle")
	assert.Contains(t, ctx.EventManager().Events(),
		types.NewEventFeeSettled(fund.Id, types.HighWaterMarkFeeID, types.HookExit, sdkmath.NewInt(1_111), fund.Manager))
	assert.Contains(t, ctx.EventManager().Events(),
		types.NewEventCrystallizationScheduled(fund.Id, testutil.BaseTime+2*hwmPeriod))
}

func TestEndBlocker_LeavesFutureEntries(t *testing.T) {
	env := testutil.NewEnv(t)
	feeIDs, feeConfigs := hwmBatch("0.2", hwmPeriod)
	fund, manager := newManagedFund(t, env, feeIDs, feeConfigs)

	require.NoError(t, env.Keeper.EndBlocker(env.At(hwmPeriod-1)))

	assert.True(t, shareBalance(t, env, fund.Id, manager).IsZero(), "nothing should settle before the cycle start")
	assert.Equal(t, []queueEntry{{at: testutil.BaseTime + hwmPeriod, fundID: fund.Id}}, queueEntries(t, env),
		"the schedule entry should remain queued")
}

func TestEndBlocker_SkipsFailingFundButReschedules(t *testing.T) {
	env := testutil.NewEnv(t)
	feeIDs, feeConfigs := hwmBatch("0.2", hwmPeriod)
	fund, manager := newManagedFund(t, env, feeIDs, feeConfigs)

	investor := newFundedAccount(t, env, sdk.NewCoins(sdk.NewInt64Coin(denomAsset, 10_000)))
	buyShares(t, env, env.Ctx, fund.Id, investor, 10_000)
	// An unquoted basket asset makes the valuation, and with it the
	// settlement, fail.
	env.FundAccount(t, fund.GetAddress(), sdk.NewCoins(sdk.NewInt64Coin(altAsset, 50)))

	require.NoError(t, env.Keeper.EndBlocker(env.At(hwmPeriod)), "fund failures should not fail the block")

	assert.True(t, shareBalance(t, env, fund.Id, manager).IsZero(), "no fee should mint for the failed fund")
	assert.Equal(t, int64(10_000), totalShares(t, env, fund.Id).Int64())

	settings, err := env.Keeper.HighWaterMarkFee.Settings.Get(env.Ctx, fund.Id)
	require.NoError(t, err)
	assert.Equal(t, testutil.BaseTime, settings.LastPaidTime, "the failed settlement should leave the settings untouched")

	assert.Equal(t, []queueEntry{{at: testutil.BaseTime + 2*hwmPeriod, fundID: fund.Id}}, queueEntries(t, env),
		"the failed fund should still be rescheduled")
}

func TestEndBlocker_DropsEntriesForMissingFunds(t *testing.T) {
	env := testutil.NewEnv(t)
	require.NoError(t, env.Keeper.CrystallizationQueue.Enqueue(env.Ctx, testutil.BaseTime, 404))

	require.NoError(t, env.Keeper.EndBlocker(env.Ctx))

	assert.Empty(t, queueEntries(t, env), "entries for unknown funds should drain without rescheduling")
}

func TestSafeEnqueueCrystallization(t *testing.T) {
	env := testutil.NewEnv(t)

	feeIDs, feeConfigs := tbBatch("0.02")
	tbFund, _ := newManagedFund(t, env, feeIDs, feeConfigs)
	require.NoError(t, env.Keeper.SafeEnqueueCrystallization(env.Ctx, tbFund.Id))
	assert.Empty(t, queueEntries(t, env), "funds without a high water mark fee have no crystallization cycle")

	feeIDs, feeConfigs = hwmBatch("0.2", hwmPeriod)
	fund, _ := newManagedFund(t, env, feeIDs, feeConfigs)

	// A stray extra entry is cleared before the next cycle is scheduled.
	require.NoError(t, env.Keeper.CrystallizationQueue.Enqueue(env.Ctx, testutil.BaseTime+999, fund.Id))

	ctx := env.Ctx.WithEventManager(sdk.NewEventManager())
	require.NoError(t, env.Keeper.SafeEnqueueCrystallization(ctx, fund.Id))

	assert.Equal(t, []queueEntry{{at: testutil.BaseTime + hwmPeriod, fundID: fund.Id}}, queueEntries(t, env),
		"the fund should carry exactly one schedule entry")
	assert.Contains(t, ctx.EventManager().Events(),
		types.NewEventCrystallizationScheduled(fund.Id, testutil.BaseTime+hwmPeriod))
}
