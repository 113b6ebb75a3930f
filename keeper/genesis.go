package keeper

import (
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/types"
)

// InitGenesis initializes the fund module state from genesis.
func (k Keeper) InitGenesis(ctx sdk.Context, genState *types.GenesisState) {
	if genState == nil {
		return
	}
	if err := genState.Validate(); err != nil {
		panic(fmt.Errorf("invalid fund genesis state: %w", err))
	}

	if err := k.FundSequence.Set(ctx, genState.FundSequence); err != nil {
		panic(fmt.Errorf("failed to set fund sequence: %w", err))
	}

	for i := range genState.Funds {
		fg := &genState.Funds[i]
		fundID := fg.Fund.Id

		if err := k.Funds.Set(ctx, fundID, fg.Fund); err != nil {
			panic(fmt.Errorf("failed to store fund %d: %w", fundID, err))
		}

		addr := fg.Fund.GetAddress()
		if !k.AuthKeeper.HasAccount(ctx, addr) {
			acc := k.AuthKeeper.NewAccountWithAddress(ctx, addr)
			k.AuthKeeper.SetAccount(ctx, acc)
		}

		if fg.TotalShares.IsPositive() {
			if err := k.TotalShares.Set(ctx, fundID, fg.TotalShares); err != nil {
				panic(fmt.Errorf("failed to store fund %d share supply: %w", fundID, err))
			}
		}
		for _, bal := range fg.Balances {
			holder, err := sdk.AccAddressFromBech32(bal.Holder)
			if err != nil {
				panic(fmt.Errorf("invalid share holder %q: %w", bal.Holder, err))
			}
			if err := k.ShareBalances.Set(ctx, collections.Join(fundID, holder), bal.Shares); err != nil {
				panic(fmt.Errorf("failed to store fund %d balance for %s: %w", fundID, bal.Holder, err))
			}
		}

		for _, enabled := range fg.EnabledFees {
			if err := k.EnabledFees.Set(ctx, collections.Join(fundID, enabled.FeeId), enabled); err != nil {
				panic(fmt.Errorf("failed to store fund %d enabled fee %s: %w", fundID, enabled.FeeId, err))
			}
		}
		if fg.TimeBasedFee != nil {
			if err := k.TimeBasedFee.Settings.Set(ctx, fundID, *fg.TimeBasedFee); err != nil {
				panic(fmt.Errorf("failed to store fund %d time based fee settings: %w", fundID, err))
			}
		}
		if fg.HighWaterMarkFee != nil {
			if err := k.HighWaterMarkFee.Settings.Set(ctx, fundID, *fg.HighWaterMarkFee); err != nil {
				panic(fmt.Errorf("failed to store fund %d high water mark fee settings: %w", fundID, err))
			}
		}
		if fg.NextCrystallization > 0 {
			if err := k.CrystallizationQueue.Enqueue(ctx, fg.NextCrystallization, fundID); err != nil {
				panic(fmt.Errorf("failed to enqueue crystallization for fund %d: %w", fundID, err))
			}
		}
	}
}

// ExportGenesis exports the current state of the fund module.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	seq, err := k.FundSequence.Peek(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to read fund sequence: %w", err))
	}

	scheduled := make(map[uint64]int64)
	err = k.CrystallizationQueue.Walk(ctx, func(at int64, fundID uint64) (bool, error) {
		if _, ok := scheduled[fundID]; !ok {
			scheduled[fundID] = at
		}
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to read crystallization queue: %w", err))
	}

	genState := types.DefaultGenesisState()
	genState.FundSequence = seq

	err = k.Funds.Walk(ctx, nil, func(fundID uint64, fund types.Fund) (bool, error) {
		fg := types.FundGenesis{Fund: fund, NextCrystallization: scheduled[fundID]}

		supply, err := k.GetTotalShares(ctx, fundID)
		if err != nil {
			return true, err
		}
		fg.TotalShares = supply

		balRng := collections.NewPrefixedPairRange[uint64, sdk.AccAddress](fundID)
		err = k.ShareBalances.Walk(ctx, balRng, func(key collections.Pair[uint64, sdk.AccAddress], shares sdkmath.Int) (bool, error) {
			fg.Balances = append(fg.Balances, types.ShareBalance{Holder: key.K2().String(), Shares: shares})
			return false, nil
		})
		if err != nil {
			return true, err
		}

		feeRng := collections.NewPrefixedPairRange[uint64, string](fundID)
		err = k.EnabledFees.Walk(ctx, feeRng, func(_ collections.Pair[uint64, string], enabled types.EnabledFee) (bool, error) {
			fg.EnabledFees = append(fg.EnabledFees, enabled)
			return false, nil
		})
		if err != nil {
			return true, err
		}

		if settings, err := k.TimeBasedFee.Settings.Get(ctx, fundID); err == nil {
			fg.TimeBasedFee = &settings
		} else if !errors.Is(err, collections.ErrNotFound) {
			return true, err
		}
		if settings, err := k.HighWaterMarkFee.Settings.Get(ctx, fundID); err == nil {
			fg.HighWaterMarkFee = &settings
		} else if !errors.Is(err, collections.ErrNotFound) {
			return true, err
		}

		genState.Funds = append(genState.Funds, fg)
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to export funds: %w", err))
	}

	return genState
}
