package keeper

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/types"
)

// TestAccessor_mintShares exposes this keeper's mintShares function for unit tests.
func (k Keeper) TestAccessor_mintShares(t *testing.T, ctx context.Context, fundID uint64, to sdk.AccAddress, amount sdkmath.Int) error {
	t.Helper()
	return k.mintShares(ctx, fundID, to, amount)
}

// TestAccessor_burnShares exposes this keeper's burnShares function for unit tests.
func (k Keeper) TestAccessor_burnShares(t *testing.T, ctx context.Context, fundID uint64, holder sdk.AccAddress, amount sdkmath.Int) error {
	t.Helper()
	return k.burnShares(ctx, fundID, holder, amount)
}

// TestAccessor_reallocateShares exposes this keeper's reallocateShares function for unit tests.
func (k Keeper) TestAccessor_reallocateShares(t *testing.T, ctx context.Context, fundID uint64, from, to sdk.AccAddress, amount sdkmath.Int) error {
	t.Helper()
	return k.reallocateShares(ctx, fundID, from, to, amount)
}

// TestAccessor_settleFundFees exposes this keeper's settleFundFees function for unit tests.
func (k *Keeper) TestAccessor_settleFundFees(t *testing.T, ctx context.Context, fund types.Fund, hook types.FeeHook) (sdkmath.Int, error) {
	t.Helper()
	return k.settleFundFees(sdk.UnwrapSDKContext(ctx), fund, hook)
}

// TestAccessor_settleInvestorFees exposes this keeper's settleInvestorFees function for unit tests.
func (k Keeper) TestAccessor_settleInvestorFees(t *testing.T, ctx context.Context, fund types.Fund, hook types.FeeHook, shares sdkmath.Int) (sdkmath.Int, error) {
	t.Helper()
	return k.settleInvestorFees(sdk.UnwrapSDKContext(ctx), fund, hook, shares)
}

// TestAccessor_purchaseCost exposes this keeper's purchaseCost function for unit tests.
func (k *Keeper) TestAccessor_purchaseCost(t *testing.T, ctx context.Context, fund types.Fund, paymentDenom string, shares sdkmath.Int) (sdk.Coin, error) {
	t.Helper()
	return k.purchaseCost(sdk.UnwrapSDKContext(ctx), fund, paymentDenom, shares)
}
