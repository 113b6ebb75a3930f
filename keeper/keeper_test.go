package keeper_test

import (
	"fmt"
	"testing"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/basketlabs/fund/feemath"
	"github.com/basketlabs/fund/testutil"
	"github.com/basketlabs/fund/types"
	"github.com/basketlabs/fund/utils"
)

const (
	denomAsset = "uusd"
	altAsset   = "uatom"

	hwmPeriod = int64(30 * feemath.SecondsPerDay)
)

// tbBatch builds an enable batch holding only the time based fee.
func tbBatch(rate string) ([]string, [][]byte) {
	return []string{types.TimeBasedFeeID}, [][]byte{[]byte(fmt.Sprintf(`{"rate":%q}`, rate))}
}

// hwmBatch builds an enable batch holding only the high water mark fee.
func hwmBatch(rate string, period int64) ([]string, [][]byte) {
	return []string{types.HighWaterMarkFeeID},
		[][]byte{[]byte(fmt.Sprintf(`{"rate":%q,"period_seconds":%d}`, rate, period))}
}

// newManagedFund creates a fund with a fresh manager, uusd as the
// denomination asset, uusd and uatom investable, and the given fee batch.
func newManagedFund(t *testing.T, env *testutil.Env, feeIDs []string, feeConfigs [][]byte) (types.Fund, sdk.AccAddress) {
	t.Helper()
	manager := utils.TestAddress()
	fund, err := env.Keeper.CreateFund(env.Ctx, manager.Bech32, denomAsset, []string{denomAsset, altAsset}, feeIDs, feeConfigs)
	require.NoError(t, err, "fund creation should succeed")
	return *fund, sdk.AccAddress(manager.Bytes)
}

// newFundedAccount creates a fresh account holding coins.
func newFundedAccount(t *testing.T, env *testutil.Env, coins sdk.Coins) sdk.AccAddress {
	t.Helper()
	addr := sdk.AccAddress(utils.TestAddress().Bytes)
	env.FundAccount(t, addr, coins)
	return addr
}

// buyShares purchases shares paid in the denomination asset and fails the
// test on error.
func buyShares(t *testing.T, env *testutil.Env, ctx sdk.Context, fundID uint64, buyer sdk.AccAddress, shares int64) sdk.Coin {
	t.Helper()
	cost, err := env.Keeper.BuyShares(ctx, fundID, buyer, denomAsset, sdkmath.NewInt(shares))
	require.NoError(t, err, "share purchase should succeed")
	return cost
}

// totalShares reads the fund's share supply.
func totalShares(t *testing.T, env *testutil.Env, fundID uint64) sdkmath.Int {
	t.Helper()
	supply, err := env.Keeper.GetTotalShares(env.Ctx, fundID)
	require.NoError(t, err)
	return supply
}

// shareBalance reads a holder's share balance.
func shareBalance(t *testing.T, env *testutil.Env, fundID uint64, holder sdk.AccAddress) sdkmath.Int {
	t.Helper()
	balance, err := env.Keeper.GetShareBalance(env.Ctx, fundID, holder)
	require.NoError(t, err)
	return balance
}

// requireLedgerBalanced asserts the fund's share supply equals the sum of its
// holder balances.
func requireLedgerBalanced(t *testing.T, env *testutil.Env, fundID uint64) {
	t.Helper()
	sum := sdkmath.ZeroInt()
	rng := collections.NewPrefixedPairRange[uint64, sdk.AccAddress](fundID)
	err := env.Keeper.ShareBalances.Walk(env.Ctx, rng, func(_ collections.Pair[uint64, sdk.AccAddress], shares sdkmath.Int) (bool, error) {
		sum = sum.Add(shares)
		return false, nil
	})
	require.NoError(t, err)
	require.Equal(t, totalShares(t, env, fundID).String(), sum.String(),
		"share supply should equal the sum of holder balances")
}

// queueEntry is one (time, fund) crystallization schedule entry.
type queueEntry struct {
	at     int64
	fundID uint64
}

// queueEntries returns every crystallization schedule entry in key order.
func queueEntries(t *testing.T, env *testutil.Env) []queueEntry {
	t.Helper()
	var entries []queueEntry
	err := env.Keeper.CrystallizationQueue.Walk(env.Ctx, func(at int64, fundID uint64) (bool, error) {
		entries = append(entries, queueEntry{at: at, fundID: fundID})
		return false, nil
	})
	require.NoError(t, err)
	return entries
}

// findEvents returns the events of the given type emitted on the context.
func findEvents(ctx sdk.Context, eventType string) []sdk.Event {
	var found []sdk.Event
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == eventType {
			found = append(found, ev)
		}
	}
	return found
}
