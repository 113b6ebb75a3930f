package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/fees"
	"github.com/basketlabs/fund/queue"
	"github.com/basketlabs/fund/types"
)

// Keeper defines the fund module's keeper. It owns the fund records, the
// internal share ledger, and the fee plumbing; asset baskets themselves are
// held in bank balances of per-fund accounts.
type Keeper struct {
	// Schema is the collections schema of the keeper.
	Schema collections.Schema

	// authority is the address allowed to enable fees on funds.
	authority string

	// AuthKeeper is used to create and look up fund custody accounts.
	AuthKeeper types.AccountKeeper
	// BankKeeper moves basket assets in and out of fund custody.
	BankKeeper types.BankKeeper
	// PriceKeeper quotes basket assets in a fund's denomination asset.
	PriceKeeper types.PriceKeeper
	// FeeRegistry reports protocol approval of fee modules.
	FeeRegistry types.FeeRegistry
	// AssetRegistry reports protocol approval of investable assets.
	AssetRegistry types.AssetRegistry

	// FundSequence allocates fund ids.
	FundSequence collections.Sequence
	// Funds maps fund id to the fund record.
	Funds collections.Map[uint64, types.Fund]
	// TotalShares maps fund id to the fund's share supply.
	TotalShares collections.Map[uint64, sdkmath.Int]
	// ShareBalances maps (fund id, holder) to the holder's share balance.
	ShareBalances collections.Map[collections.Pair[uint64, sdk.AccAddress], sdkmath.Int]
	// EnabledFees maps (fund id, fee id) to the enabled fee record.
	EnabledFees collections.Map[collections.Pair[uint64, string], types.EnabledFee]
	// CrystallizationQueue holds (time, fund id) entries for funds awaiting a
	// crystallization pass in the end blocker.
	CrystallizationQueue *queue.CrystallizationQueue

	// TimeBasedFee is the time based fee module, which also owns its settings
	// collection.
	TimeBasedFee *fees.TimeBasedFee
	// HighWaterMarkFee is the high water mark fee module, which also owns its
	// settings collection.
	HighWaterMarkFee *fees.HighWaterMarkFee

	// feeModules indexes the fee modules by id for enablement and settlement.
	feeModules map[string]fees.Module
}

// NewKeeper creates a new fund module Keeper. The keeper itself serves as the
// gross asset value source for the high water mark fee.
func NewKeeper(
	storeService store.KVStoreService,
	authKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	priceKeeper types.PriceKeeper,
	feeRegistry types.FeeRegistry,
	assetRegistry types.AssetRegistry,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Errorf("invalid fund module authority %q: %w", authority, err))
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		authority:     authority,
		AuthKeeper:    authKeeper,
		BankKeeper:    bankKeeper,
		PriceKeeper:   priceKeeper,
		FeeRegistry:   feeRegistry,
		AssetRegistry: assetRegistry,

		FundSequence: collections.NewSequence(sb, types.FundSequenceKeyPrefix, types.FundSequenceName),
		Funds: collections.NewMap(sb, types.FundsKeyPrefix, types.FundsName,
			collections.Uint64Key, types.JSONValue[types.Fund](types.FundsName)),
		TotalShares: collections.NewMap(sb, types.TotalSharesKeyPrefix, types.TotalSharesName,
			collections.Uint64Key, sdk.IntValue),
		ShareBalances: collections.NewMap(sb, types.ShareBalancesKeyPrefix, types.ShareBalancesName,
			collections.PairKeyCodec(collections.Uint64Key, sdk.AccAddressKey), sdk.IntValue),
		EnabledFees: collections.NewMap(sb, types.EnabledFeesKeyPrefix, types.EnabledFeesName,
			collections.PairKeyCodec(collections.Uint64Key, collections.StringKey),
			types.JSONValue[types.EnabledFee](types.EnabledFeesName)),
		CrystallizationQueue: queue.NewCrystallizationQueue(sb),
	}

	k.TimeBasedFee = fees.NewTimeBasedFee(sb)
	k.HighWaterMarkFee = fees.NewHighWaterMarkFee(sb, k)
	k.feeModules = map[string]fees.Module{
		k.TimeBasedFee.ID():     k.TimeBasedFee,
		k.HighWaterMarkFee.ID(): k.HighWaterMarkFee,
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// getLogger returns the module-tagged logger.
func (k Keeper) getLogger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// emitEvent emits the event on the context's event manager.
func (k Keeper) emitEvent(ctx sdk.Context, event sdk.Event) {
	ctx.EventManager().EmitEvent(event)
}
