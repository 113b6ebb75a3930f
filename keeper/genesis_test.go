package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketlabs/fund/testutil"
	"github.com/basketlabs/fund/types"
	"github.com/basketlabs/fund/utils"
)

func TestGenesisRoundTrip(t *testing.T) {
	env := testutil.NewEnv(t)
	manager := utils.TestAddress()
	holder1 := sdk.AccAddress(utils.TestAddress().Bytes)
	holder2 := sdk.AccAddress(utils.TestAddress().Bytes)

	genesis := &types.GenesisState{
		FundSequence: 3,
		Funds: []types.FundGenesis{
			{
				Fund:        types.NewFund(0, manager.Bech32, denomAsset, []string{denomAsset, altAsset}),
				TotalShares: sdkmath.NewInt(1_500),
				Balances: []types.ShareBalance{
					{Holder: holder1.String(), Shares: sdkmath.NewInt(1_000)},
					{Holder: holder2.String(), Shares: sdkmath.NewInt(500)},
				},
				EnabledFees: []types.EnabledFee{
					{FeeId: types.TimeBasedFeeID, Hook: types.HookMilestone},
					{FeeId: types.HighWaterMarkFeeID, Hook: types.HookExit},
				},
				TimeBasedFee: &types.TimeBasedFeeSettings{Rate: "0.02", LastPaidTime: testutil.BaseTime},
				HighWaterMarkFee: &types.HighWaterMarkFeeSettings{
					Rate:          "0.2",
					PeriodSeconds: hwmPeriod,
					CreatedTime:   testutil.BaseTime,
					LastPaidTime:  testutil.BaseTime,
					HighWaterMark: sdkmath.NewInt(1_250_000),
				},
				NextCrystallization: testutil.BaseTime + hwmPeriod,
			},
			{
				Fund:        types.NewFund(2, manager.Bech32, denomAsset, []string{denomAsset}),
				TotalShares: sdkmath.ZeroInt(),
			},
		},
	}
	require.NoError(t, genesis.Validate(), "fixture must be a valid genesis state")

	env.Keeper.InitGenesis(env.Ctx, genesis)

	seq, err := env.Keeper.FundSequence.Peek(env.Ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), seq, "fund sequence should restore")

	restored, err := env.Keeper.GetFund(env.Ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, genesis.Funds[0].Fund, *restored)
	assert.True(t, env.AccountKeeper.HasAccount(env.Ctx, restored.GetAddress()),
		"custody accounts should exist after genesis")

	assert.Equal(t, int64(1_500), totalShares(t, env, 0).Int64(), "share supply should restore")
	assert.Equal(t, int64(1_000), shareBalance(t, env, 0, holder1).Int64())
	assert.Equal(t, int64(500), shareBalance(t, env, 0, holder2).Int64())
	requireLedgerBalanced(t, env, 0)

	tbSettings, err := env.Keeper.TimeBasedFee.Settings.Get(env.Ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, *genesis.Funds[0].TimeBasedFee, tbSettings)

	hwmSettings, err := env.Keeper.HighWaterMarkFee.Settings.Get(env.Ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, *genesis.Funds[0].HighWaterMarkFee, hwmSettings)

	assert.Equal(t, []queueEntry{{at: testutil.BaseTime + hwmPeriod, fundID: 0}}, queueEntries(t, env),
		"queued crystallization should restore")

	exported := env.Keeper.ExportGenesis(env.Ctx)
	require.Len(t, exported.Funds, 2)
	assert.Equal(t, genesis.FundSequence, exported.FundSequence)

	want, got := genesis.Funds[0], exported.Funds[0]
	assert.Equal(t, want.Fund, got.Fund)
	assert.Equal(t, want.TotalShares, got.TotalShares)
	assert.ElementsMatch(t, want.Balances, got.Balances, "exported balances should match modulo order")
	assert.ElementsMatch(t, want.EnabledFees, got.EnabledFees)
	assert.Equal(t, want.TimeBasedFee, got.TimeBasedFee)
	assert.Equal(t, want.HighWaterMarkFee, got.HighWaterMarkFee)
	assert.Equal(t, want.NextCrystallization, got.NextCrystallization)

	empty := exported.Funds[1]
	assert.Equal(t, genesis.Funds[1].Fund, empty.Fund)
	assert.True(t, empty.TotalShares.IsZero())
	assert.Empty(t, empty.Balances)
	assert.Empty(t, empty.EnabledFees)
	assert.Nil(t, empty.TimeBasedFee)
	assert.Nil(t, empty.HighWaterMarkFee)
	assert.Zero(t, empty.NextCrystallization)
}

func TestInitGenesis_NilIsNoOp(t *testing.T) {
	env := testutil.NewEnv(t)

	require.NotPanics(t, func() { env.Keeper.InitGenesis(env.Ctx, nil) })

	seq, err := env.Keeper.FundSequence.Peek(env.Ctx)
	require.NoError(t, err)
	assert.Zero(t, seq)
}

func TestInitGenesis_RejectsInvalidState(t *testing.T) {
	manager := utils.TestAddress()
	holder := sdk.AccAddress(utils.TestAddress().Bytes)

	tests := []struct {
		name    string
		genesis *types.GenesisState
	}{
		{
			name: "fund id not below the sequence",
			genesis: &types.GenesisState{
				FundSequence: 0,
				Funds: []types.FundGenesis{{
					Fund:        types.NewFund(0, manager.Bech32, denomAsset, nil),
					TotalShares: sdkmath.ZeroInt(),
				}},
			},
		},
		{
			name: "balances do not sum to the supply",
			genesis: &types.GenesisState{
				FundSequence: 1,
				Funds: []types.FundGenesis{{
					Fund:        types.NewFund(0, manager.Bech32, denomAsset, nil),
					TotalShares: sdkmath.NewInt(5),
					Balances:    []types.ShareBalance{{Holder: holder.String(), Shares: sdkmath.NewInt(3)}},
				}},
			},
		},
		{
			name: "settings without the fee enabled",
			genesis: &types.GenesisState{
				FundSequence: 1,
				Funds: []types.FundGenesis{{
					Fund:         types.NewFund(0, manager.Bech32, denomAsset, nil),
					TotalShares:  sdkmath.ZeroInt(),
					TimeBasedFee: &types.TimeBasedFeeSettings{Rate: "0.02", LastPaidTime: testutil.BaseTime},
				}},
			},
		},
		{
			name: "crystallization queued without a high water mark fee",
			genesis: &types.GenesisState{
				FundSequence: 1,
				Funds: []types.FundGenesis{{
					Fund:                types.NewFund(0, manager.Bech32, denomAsset, nil),
					TotalShares:         sdkmath.ZeroInt(),
					NextCrystallization: testutil.BaseTime,
				}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := testutil.NewEnv(t)
			assert.Panics(t, func() { env.Keeper.InitGenesis(env.Ctx, tc.genesis) })
		})
	}
}

func TestExportGenesis_Empty(t *testing.T) {
	env := testutil.NewEnv(t)

	exported := env.Keeper.ExportGenesis(env.Ctx)
	assert.Zero(t, exported.FundSequence)
	assert.Empty(t, exported.Funds)
}
