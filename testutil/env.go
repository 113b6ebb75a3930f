// Package testutil builds self-contained fund keeper test environments: an
// in-memory multistore with real auth and bank keepers, and scripted mocks
// for the oracle and registry collaborators.
package testutil

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"

	"github.com/basketlabs/fund/keeper"
	"github.com/basketlabs/fund/types"
)

// BaseTime is the unix time test contexts start at.
const BaseTime = int64(1_700_000_000)

// Env is a fund keeper test environment. The keeper runs against real auth
// and bank keepers on an in-memory multistore; the oracle and registries are
// scripted mocks.
type Env struct {
	Ctx           sdk.Context
	Keeper        *keeper.Keeper
	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    *FailingBankKeeper
	PriceKeeper   *MockPriceKeeper
	FeeRegistry   *MockFeeRegistry
	AssetRegistry *MockAssetRegistry
	Authority     string
}

// NewEnv creates a fund keeper test environment with the block time set to
// BaseTime.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	fundStoreKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(fundStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(types.GovModuleName)

	// The fund module account carries the minter permission so tests can
	// conjure basket assets for buyers.
	maccPerms := map[string][]string{
		types.ModuleName: {authtypes.Minter},
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	failingBank := &FailingBankKeeper{Keeper: bankKeeper, FailDenoms: map[string]bool{}}
	priceKeeper := NewMockPriceKeeper()
	feeRegistry := &MockFeeRegistry{Declined: map[string]bool{}}
	assetRegistry := &MockAssetRegistry{Declined: map[string]bool{}}

	k := keeper.NewKeeper(
		runtime.NewKVStoreService(fundStoreKey),
		accountKeeper,
		failingBank,
		priceKeeper,
		feeRegistry,
		assetRegistry,
		authority.String(),
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockTime(time.Unix(BaseTime, 0))

	return &Env{
		Ctx:           ctx,
		Keeper:        k,
		AccountKeeper: accountKeeper,
		BankKeeper:    failingBank,
		PriceKeeper:   priceKeeper,
		FeeRegistry:   feeRegistry,
		AssetRegistry: assetRegistry,
		Authority:     authority.String(),
	}
}

// At returns the environment context with the block time offset seconds after
// BaseTime.
func (e *Env) At(offset int64) sdk.Context {
	return e.Ctx.WithBlockTime(time.Unix(BaseTime+offset, 0))
}

// FundAccount mints coins through the module's minter account and sends them
// to addr.
func (e *Env) FundAccount(t *testing.T, addr sdk.AccAddress, coins sdk.Coins) {
	t.Helper()
	require.NoError(t, e.BankKeeper.MintCoins(e.Ctx, types.ModuleName, coins))
	require.NoError(t, e.BankKeeper.SendCoinsFromModuleToAccount(e.Ctx, types.ModuleName, addr, coins))
}
