package fees_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/collections"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/basketlabs/fund/fees"
	"github.com/basketlabs/fund/types"
	"github.com/basketlabs/fund/utils"
)

// baseTime anchors block times in fee tests.
const baseTime = int64(1_700_000_000)

// stubValuer is a GAVSource returning a fixed value or error.
type stubValuer struct {
	gav sdkmath.Int
	err error
}

func (s *stubValuer) GrossAssetValue(_ context.Context, _ types.Fund) (sdkmath.Int, error) {
	if s.err != nil {
		return sdkmath.Int{}, s.err
	}
	return s.gav, nil
}

// feeTestEnv wires both fee modules over an in-memory store.
type feeTestEnv struct {
	ctx    sdk.Context
	tb     *fees.TimeBasedFee
	hwm    *fees.HighWaterMarkFee
	valuer *stubValuer
	fund   types.Fund
}

func newFeeTestEnv(t *testing.T) *feeTestEnv {
	t.Helper()
	storeKey := storetypes.NewKVStoreKey(types.ModuleName)
	testCtx := testutil.DefaultContextWithDB(t, storeKey, storetypes.NewTransientStoreKey("transient_test"))

	sb := collections.NewSchemaBuilder(runtime.NewKVStoreService(storeKey))
	valuer := &stubValuer{gav: sdkmath.ZeroInt()}
	env := &feeTestEnv{
		tb:     fees.NewTimeBasedFee(sb),
		hwm:    fees.NewHighWaterMarkFee(sb, valuer),
		valuer: valuer,
		fund:   types.NewFund(1, utils.TestAddress().Bech32, "uusd", []string{"uusd"}),
	}
	_, err := sb.Build()
	require.NoError(t, err)

	env.ctx = testCtx.Ctx.WithLogger(log.NewNopLogger()).WithBlockTime(time.Unix(baseTime, 0))
	return env
}

// at returns the env context with its block time offset seconds past baseTime.
func (e *feeTestEnv) at(offset int64) sdk.Context {
	return e.ctx.WithBlockTime(time.Unix(baseTime+offset, 0))
}
