package testutil

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"

	"github.com/basketlabs/fund/types"
)

// FailingBankKeeper wraps the bank keeper and rejects transfers of configured
// denoms, letting tests exercise payout failure branches.
type FailingBankKeeper struct {
	bankkeeper.Keeper

	// FailDenoms lists denoms whose transfers fail.
	FailDenoms map[string]bool
}

// SendCoins fails when any coin's denom is configured to fail and otherwise
// delegates to the wrapped keeper.
func (k *FailingBankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		if k.FailDenoms[coin.Denom] {
			return fmt.Errorf("transfers of %s are frozen", coin.Denom)
		}
	}
	return k.Keeper.SendCoins(ctx, fromAddr, toAddr, amt)
}

// MockPriceKeeper returns scripted quotes keyed by asset/quote pair.
type MockPriceKeeper struct {
	// Quotes maps "asset/quote" to the scripted price.
	Quotes map[string]types.AssetPrice
	// Err, when set, fails every lookup.
	Err error
}

// NewMockPriceKeeper creates an empty mock oracle.
func NewMockPriceKeeper() *MockPriceKeeper {
	return &MockPriceKeeper{Quotes: map[string]types.AssetPrice{}}
}

// SetQuote scripts a quote: volume units of asset are worth amount of quote.
func (k *MockPriceKeeper) SetQuote(asset, quote string, amount sdkmath.Int, volume uint64) {
	k.Quotes[asset+"/"+quote] = types.AssetPrice{
		Price:  sdk.NewCoin(quote, amount),
		Volume: volume,
	}
}

// GetAssetPrice returns the scripted quote or an error when none exists.
func (k *MockPriceKeeper) GetAssetPrice(_ context.Context, asset, quote string) (types.AssetPrice, error) {
	if k.Err != nil {
		return types.AssetPrice{}, k.Err
	}
	price, ok := k.Quotes[asset+"/"+quote]
	if !ok {
		return types.AssetPrice{}, fmt.Errorf("no quote for %s/%s", asset, quote)
	}
	return price, nil
}

// MockFeeRegistry approves every fee id except those listed in Declined.
type MockFeeRegistry struct {
	Declined map[string]bool
}

// IsApprovedFee reports approval for the fee id.
func (r *MockFeeRegistry) IsApprovedFee(_ context.Context, feeID string) bool {
	return !r.Declined[feeID]
}

// MockAssetRegistry approves every denom except those listed in Declined.
type MockAssetRegistry struct {
	Declined map[string]bool
}

// IsApprovedAsset reports approval for the denom.
func (r *MockAssetRegistry) IsApprovedAsset(_ context.Context, denom string) bool {
	return !r.Declined[denom]
}
