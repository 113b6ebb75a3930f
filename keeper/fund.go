package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/basketlabs/fund/types"
)

// GetFund returns the fund record for the id.
func (k Keeper) GetFund(ctx context.Context, fundID uint64) (*types.Fund, error) {
	fund, err := k.Funds.Get(ctx, fundID)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return nil, errorsmod.Wrapf(types.ErrFundNotFound, "id %d", fundID)
		}
		return nil, err
	}
	return &fund, nil
}

// CreateFund creates a new fund. Creation is permissionless; the caller
// becomes the manager.
//
// The function performs the following:
//  1. Allocates the next fund id and validates the fund record.
//  2. Checks each investable asset against the asset registry.
//  3. Creates the fund's custody account at its derived address.
//  4. Enables the initial fee batch, when one is supplied.
//  5. Stores the fund and emits a creation event.
func (k *Keeper) CreateFund(ctx sdk.Context, manager, denomAsset string, investableAssets, feeIDs []string, feeConfigs [][]byte) (*types.Fund, error) {
	id, err := k.FundSequence.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate fund id: %w", err)
	}

	fund := types.NewFund(id, manager, denomAsset, investableAssets)
	if err := fund.Validate(); err != nil {
		return nil, err
	}
	for _, denom := range investableAssets {
		if !k.AssetRegistry.IsApprovedAsset(ctx, denom) {
			return nil, errorsmod.Wrapf(types.ErrAssetNotApproved, "%s declined by the asset registry", denom)
		}
	}

	addr := fund.GetAddress()
	if k.AuthKeeper.HasAccount(ctx, addr) {
		return nil, fmt.Errorf("account already exists at fund address %s", addr)
	}
	acc := k.AuthKeeper.NewAccountWithAddress(ctx, addr)
	k.AuthKeeper.SetAccount(ctx, acc)

	if err := k.Funds.Set(ctx, id, fund); err != nil {
		return nil, fmt.Errorf("failed to store fund %d: %w", id, err)
	}

	if len(feeIDs) > 0 {
		if err := k.enableFees(ctx, fund, feeIDs, feeConfigs); err != nil {
			return nil, err
		}
	}

	k.emitEvent(ctx, types.NewEventFundCreated(fund))
	return &fund, nil
}

// AddInvestableAsset adds an asset to the fund's purchase allowlist. Only the
// manager may call, and the asset registry must approve the denom.
func (k *Keeper) AddInvestableAsset(ctx sdk.Context, fundID uint64, signer, denom string) error {
	fund, err := k.GetFund(ctx, fundID)
	if err != nil {
		return err
	}
	if fund.Manager != signer {
		return errorsmod.Wrapf(types.ErrUnauthorized, "only the manager %s may update investable assets", fund.Manager)
	}
	if !k.AssetRegistry.IsApprovedAsset(ctx, denom) {
		return errorsmod.Wrapf(types.ErrAssetNotApproved, "%s declined by the asset registry", denom)
	}
	if err := fund.AddInvestableAsset(denom); err != nil {
		return err
	}
	if err := k.Funds.Set(ctx, fundID, *fund); err != nil {
		return fmt.Errorf("failed to store fund %d: %w", fundID, err)
	}

	k.emitEvent(ctx, types.NewEventInvestableAssetAdded(fundID, denom))
	return nil
}

// RemoveInvestableAsset removes an asset from the fund's purchase allowlist.
// Only the manager may call. Assets already in custody remain part of the
// basket; removal only stops new purchases with the denom.
func (k *Keeper) RemoveInvestableAsset(ctx sdk.Context, fundID uint64, signer, denom string) error {
	fund, err := k.GetFund(ctx, fundID)
	if err != nil {
		return err
	}
	if fund.Manager != signer {
		return errorsmod.Wrapf(types.ErrUnauthorized, "only the manager %s may update investable assets", fund.Manager)
	}
	if err := fund.RemoveInvestableAsset(denom); err != nil {
		return err
	}
	if err := k.Funds.Set(ctx, fundID, *fund); err != nil {
		return fmt.Errorf("failed to store fund %d: %w", fundID, err)
	}

	k.emitEvent(ctx, types.NewEventInvestableAssetRemoved(fundID, denom))
	return nil
}
