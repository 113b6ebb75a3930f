package types

import (
	context "context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccountKeeper defines the account functionality needed by the fund module.
type AccountKeeper interface {
	NewAccountWithAddress(ctx context.Context, addr sdk.AccAddress) sdk.AccountI

	GetAccount(ctx context.Context, addr sdk.AccAddress) sdk.AccountI
	HasAccount(ctx context.Context, addr sdk.AccAddress) bool
	SetAccount(ctx context.Context, acc sdk.AccountI)
}

// BankKeeper defines the bank functionality needed for fund asset custody:
// pulling purchase payments in and paying redemptions out of the fund account.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// AssetPrice is an oracle quote: Volume units of an asset are worth Price.
type AssetPrice struct {
	// Price is the value of Volume units, in the quote denom.
	Price sdk.Coin `json:"price"`
	// Volume is the number of asset units the price covers.
	Volume uint64 `json:"volume"`
}

// PriceKeeper is the valuation oracle the fund module prices baskets with.
// Implementations return a quote for the asset expressed in the quote denom,
// or an error when no usable quote exists.
type PriceKeeper interface {
	GetAssetPrice(ctx context.Context, asset string, quote string) (AssetPrice, error)
}

// FeeRegistry reports which fee modules the protocol has approved for use.
type FeeRegistry interface {
	IsApprovedFee(ctx context.Context, feeID string) bool
}

// AssetRegistry reports which assets the protocol has approved for investment.
type AssetRegistry interface {
	IsApprovedAsset(ctx context.Context, denom string) bool
}
