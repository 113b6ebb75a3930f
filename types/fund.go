package types

import (
	fmt "fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// NewFund creates a new fund record.
func NewFund(id uint64, manager string, denomAsset string, investableAssets []string) Fund {
	return Fund{
		Id:               id,
		Manager:          manager,
		DenomAsset:       denomAsset,
		InvestableAssets: investableAssets,
	}
}

// Fund is the on-chain record for a managed fund. The fund's asset basket is
// held by a derived module account; shares are tracked in the module's own
// ledger rather than as a bank denom.
type Fund struct {
	// Id is the unique fund identifier.
	Id uint64 `json:"id"`
	// Manager is the bech32 address that receives fee shares and administers
	// the investable asset allowlist.
	Manager string `json:"manager"`
	// DenomAsset is the denomination asset all valuations are expressed in.
	DenomAsset string `json:"denom_asset"`
	// InvestableAssets is the allowlist of assets accepted for share purchases.
	InvestableAssets []string `json:"investable_assets,omitempty"`
}

// GetAddress returns the fund's module account address.
func (f Fund) GetAddress() sdk.AccAddress {
	return GetFundAddress(f.Id)
}

// Validate performs basic validation on the fund fields.
func (f Fund) Validate() error {
	if _, err := sdk.AccAddressFromBech32(f.Manager); err != nil {
		return fmt.Errorf("invalid manager address: %w", err)
	}
	if err := sdk.ValidateDenom(f.DenomAsset); err != nil {
		return fmt.Errorf("invalid denomination asset: %w", err)
	}

	seen := make(map[string]bool, len(f.InvestableAssets))
	for _, denom := range f.InvestableAssets {
		if err := sdk.ValidateDenom(denom); err != nil {
			return fmt.Errorf("invalid investable asset denom: %s", denom)
		}
		if seen[denom] {
			return fmt.Errorf("duplicate investable asset denom: %s", denom)
		}
		seen[denom] = true
	}

	return nil
}

// HasInvestableAsset reports whether the denom is on the fund's allowlist.
func (f Fund) HasInvestableAsset(denom string) bool {
	for _, d := range f.InvestableAssets {
		if d == denom {
			return true
		}
	}
	return false
}

// AddInvestableAsset appends a denom to the allowlist.
func (f *Fund) AddInvestableAsset(denom string) error {
	if err := sdk.ValidateDenom(denom); err != nil {
		return fmt.Errorf("invalid investable asset denom: %s", denom)
	}
	if f.HasInvestableAsset(denom) {
		return fmt.Errorf("asset denom already investable: %s", denom)
	}
	f.InvestableAssets = append(f.InvestableAssets, denom)
	return nil
}

// RemoveInvestableAsset removes a denom from the allowlist.
func (f *Fund) RemoveInvestableAsset(denom string) error {
	for i, d := range f.InvestableAssets {
		if d == denom {
			f.InvestableAssets = append(f.InvestableAssets[:i], f.InvestableAssets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("asset denom not investable: %s", denom)
}
