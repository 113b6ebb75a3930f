// Package fees implements the pluggable fee modules a fund can enable. Each
// module owns its per-fund settings collection on the keeper's schema builder
// and computes the shares a settlement owes; minting those shares and paying
// them out stays with the keeper.
package fees

import (
	"context"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/types"
)

// GAVSource values a fund's asset basket in denomination asset units. The
// keeper implements it over the fund account's bank balances and the price
// oracle.
type GAVSource interface {
	GrossAssetValue(ctx context.Context, fund types.Fund) (sdkmath.Int, error)
}

// Module is a fee implementation a fund can enable.
type Module interface {
	// ID returns the identifier stored in enabled fee records.
	ID() string
	// Hook returns the settlement point the module participates in.
	Hook() types.FeeHook
	// Initialize validates an enable payload and writes the fund's initial
	// settings. Called once per fund, when the fee is enabled.
	Initialize(ctx context.Context, fundID uint64, config []byte) error
	// SharesDueForFund returns the dilution-adjusted shares to mint for a
	// fund-level settlement, committing whatever bookkeeping the module keeps
	// (last paid time, high water mark).
	SharesDueForFund(ctx context.Context, fund types.Fund, supply sdkmath.Int) (sdkmath.Int, error)
	// SharesDueForInvestor returns the raw shares a single holding owes,
	// without dilution and without touching state.
	SharesDueForInvestor(ctx context.Context, fund types.Fund, supply, shares sdkmath.Int) (sdkmath.Int, error)
}

// feeLogger returns a module-tagged logger from the context.
func feeLogger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}
