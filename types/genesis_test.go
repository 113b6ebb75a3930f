package types_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketlabs/fund/types"
	"github.com/basketlabs/fund/utils"
)

func validFundGenesis(t *testing.T) types.FundGenesis {
	t.Helper()
	manager := utils.TestAddress().Bech32
	holder := utils.TestAddress().Bech32
	return types.FundGenesis{
		Fund:        types.NewFund(0, manager, "uusd", []string{"uatom"}),
		TotalShares: sdkmath.NewInt(150),
		Balances: []types.ShareBalance{
			{Holder: manager, Shares: sdkmath.NewInt(50)},
			{Holder: holder, Shares: sdkmath.NewInt(100)},
		},
		EnabledFees: []types.EnabledFee{
			{FeeId: types.TimeBasedFeeID, Hook: types.HookMilestone},
			{FeeId: types.HighWaterMarkFeeID, Hook: types.HookExit},
		},
		TimeBasedFee: &types.TimeBasedFeeSettings{Rate: "0.02", LastPaidTime: 1700000000},
		HighWaterMarkFee: &types.HighWaterMarkFeeSettings{
			Rate:          "0.2",
			PeriodSeconds: 7776000,
			CreatedTime:   1700000000,
			LastPaidTime:  1700000000,
			HighWaterMark: sdkmath.NewInt(1_000_000),
		},
		NextCrystallization: 1707776000,
	}
}

func TestGenesisState_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*types.GenesisState)
		expectedErr string
	}{
		{name: "default is valid", mutate: func(gs *types.GenesisState) { *gs = *types.DefaultGenesisState() }},
		{name: "valid with one fund", mutate: func(*types.GenesisState) {}},
		{
			name: "fund id at or above sequence",
			mutate: func(gs *types.GenesisState) {
				gs.FundSequence = 0
			},
			expectedErr: "not below fund sequence",
		},
		{
			name: "duplicate fund ids",
			mutate: func(gs *types.GenesisState) {
				gs.Funds = append(gs.Funds, gs.Funds[0])
			},
			expectedErr: "duplicate fund id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := types.GenesisState{FundSequence: 1, Funds: []types.FundGenesis{validFundGenesis(t)}}
			tc.mutate(&gs)
			err := gs.Validate()
			if tc.expectedErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
			}
		})
	}
}

func TestFundGenesis_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*types.FundGenesis)
		expectedErr string
	}{
		{name: "valid", mutate: func(*types.FundGenesis) {}},
		{
			name: "balances do not sum to supply",
			mutate: func(fg *types.FundGenesis) {
				fg.TotalShares = sdkmath.NewInt(151)
			},
			expectedErr: "does not match total shares",
		},
		{
			name: "duplicate holder",
			mutate: func(fg *types.FundGenesis) {
				fg.Balances[1].Holder = fg.Balances[0].Holder
			},
			expectedErr: "duplicate share holder",
		},
		{
			name: "non-positive balance",
			mutate: func(fg *types.FundGenesis) {
				fg.Balances[1].Shares = sdkmath.ZeroInt()
			},
			expectedErr: "must be positive",
		},
		{
			name: "invalid holder address",
			mutate: func(fg *types.FundGenesis) {
				fg.Balances[0].Holder = "nope"
			},
			expectedErr: "invalid share holder address",
		},
		{
			name: "unknown fee id",
			mutate: func(fg *types.FundGenesis) {
				fg.EnabledFees[0].FeeId = "entry_fee"
			},
			expectedErr: "unknown fee id",
		},
		{
			name: "duplicate enabled fee",
			mutate: func(fg *types.FundGenesis) {
				fg.EnabledFees[1] = fg.EnabledFees[0]
			},
			expectedErr: "duplicate enabled fee",
		},
		{
			name: "time based fee on wrong hook",
			mutate: func(fg *types.FundGenesis) {
				fg.EnabledFees[0].Hook = types.HookExit
			},
			expectedErr: "milestone hook",
		},
		{
			name: "high water mark fee on wrong hook",
			mutate: func(fg *types.FundGenesis) {
				fg.EnabledFees[1].Hook = types.HookMilestone
			},
			expectedErr: "exit hook",
		},
		{
			name: "enabled fee missing settings",
			mutate: func(fg *types.FundGenesis) {
				fg.TimeBasedFee = nil
			},
			expectedErr: "enabled without settings",
		},
		{
			name: "settings without enabled fee",
			mutate: func(fg *types.FundGenesis) {
				fg.EnabledFees = fg.EnabledFees[1:]
			},
			expectedErr: "settings present but fee not enabled",
		},
		{
			name: "queued crystallization without fee",
			mutate: func(fg *types.FundGenesis) {
				fg.EnabledFees = fg.EnabledFees[:1]
				fg.HighWaterMarkFee = nil
			},
			expectedErr: "crystallization queued without",
		},
		{
			name: "negative crystallization time",
			mutate: func(fg *types.FundGenesis) {
				fg.NextCrystallization = -1
			},
			expectedErr: "negative crystallization time",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fg := validFundGenesis(t)
			tc.mutate(&fg)
			err := fg.Validate()
			if tc.expectedErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
			}
		})
	}
}
