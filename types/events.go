package types

import (
	"strconv"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	EventTypeFundCreated              = "fund_created"
	EventTypeFeesEnabled              = "fees_enabled"
	EventTypeFeeSettled               = "fee_settled"
	EventTypeInvestorFeeSettled       = "investor_fee_settled"
	EventTypeSharesPurchased          = "shares_purchased"
	EventTypeSharesRedeemed           = "shares_redeemed"
	EventTypePayoutForfeited          = "payout_forfeited"
	EventTypeFeesPayout               = "fees_payout"
	EventTypeInvestableAssetAdded     = "investable_asset_added"
	EventTypeInvestableAssetRemoved   = "investable_asset_removed"
	EventTypeCrystallizationScheduled = "crystallization_scheduled"

	AttributeKeyFundId        = "fund_id"
	AttributeKeyFundAddr      = "fund_address"
	AttributeKeyManager       = "manager"
	AttributeKeyDenomAsset    = "denom_asset"
	AttributeKeyFeeId         = "fee_id"
	AttributeKeyFeeIds        = "fee_ids"
	AttributeKeyHook          = "hook"
	AttributeKeyShares        = "shares"
	AttributeKeyBuyer         = "buyer"
	AttributeKeyRedeemer      = "redeemer"
	AttributeKeyCost          = "cost"
	AttributeKeyPayout        = "payout"
	AttributeKeyAsset         = "asset"
	AttributeKeyReason        = "reason"
	AttributeKeyScheduledTime = "scheduled_time"
)

// NewEventFundCreated creates the event emitted when a fund is created.
func NewEventFundCreated(fund Fund) sdk.Event {
	return sdk.NewEvent(EventTypeFundCreated,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fund.Id, 10)),
		sdk.NewAttribute(AttributeKeyFundAddr, fund.GetAddress().String()),
		sdk.NewAttribute(AttributeKeyManager, fund.Manager),
		sdk.NewAttribute(AttributeKeyDenomAsset, fund.DenomAsset),
	)
}

// NewEventFeesEnabled creates the event emitted when a fee batch is enabled on a fund.
func NewEventFeesEnabled(fundID uint64, feeIDs []string) sdk.Event {
	ev := sdk.NewEvent(EventTypeFeesEnabled,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
	)
	for _, id := range feeIDs {
		ev = ev.AppendAttributes(sdk.NewAttribute(AttributeKeyFeeIds, id))
	}
	return ev
}

// NewEventFeeSettled creates the event emitted when a fee settles at the fund
// level and shares are minted to the manager.
func NewEventFeeSettled(fundID uint64, feeID string, hook FeeHook, shares sdkmath.Int, manager string) sdk.Event {
	return sdk.NewEvent(EventTypeFeeSettled,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyFeeId, feeID),
		sdk.NewAttribute(AttributeKeyHook, string(hook)),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
		sdk.NewAttribute(AttributeKeyManager, manager),
	)
}

// NewEventInvestorFeeSettled creates the event emitted when redemption fees are
// reallocated from a redeemer to the manager.
func NewEventInvestorFeeSettled(fundID uint64, redeemer string, shares sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeInvestorFeeSettled,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyRedeemer, redeemer),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
	)
}

// NewEventSharesPurchased creates the event emitted when shares are bought.
func NewEventSharesPurchased(fundID uint64, buyer string, shares sdkmath.Int, cost sdk.Coin) sdk.Event {
	return sdk.NewEvent(EventTypeSharesPurchased,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyBuyer, buyer),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
		sdk.NewAttribute(AttributeKeyCost, cost.String()),
	)
}

// NewEventSharesRedeemed creates the event emitted when shares are redeemed.
func NewEventSharesRedeemed(fundID uint64, redeemer string, shares sdkmath.Int, payout sdk.Coins) sdk.Event {
	return sdk.NewEvent(EventTypeSharesRedeemed,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyRedeemer, redeemer),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
		sdk.NewAttribute(AttributeKeyPayout, payout.String()),
	)
}

// NewEventPayoutForfeited creates the event emitted when a redemption payout
// transfer fails and the redeemer chose to forfeit rather than abort.
func NewEventPayoutForfeited(fundID uint64, redeemer string, payout sdk.Coin, reason string) sdk.Event {
	return sdk.NewEvent(EventTypePayoutForfeited,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyRedeemer, redeemer),
		sdk.NewAttribute(AttributeKeyPayout, payout.String()),
		sdk.NewAttribute(AttributeKeyReason, reason),
	)
}

// NewEventFeesPayout creates the event emitted by the manual payout trigger.
func NewEventFeesPayout(fundID uint64, shares sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeFeesPayout,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
	)
}

// NewEventInvestableAssetAdded creates the event emitted when a manager adds
// an asset to the fund allowlist.
func NewEventInvestableAssetAdded(fundID uint64, denom string) sdk.Event {
	return sdk.NewEvent(EventTypeInvestableAssetAdded,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyAsset, denom),
	)
}

// NewEventInvestableAssetRemoved creates the event emitted when a manager
// removes an asset from the fund allowlist.
func NewEventInvestableAssetRemoved(fundID uint64, denom string) sdk.Event {
	return sdk.NewEvent(EventTypeInvestableAssetRemoved,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyAsset, denom),
	)
}

// NewEventCrystallizationScheduled creates the event emitted when a fund's
// next crystallization pass is scheduled.
func NewEventCrystallizationScheduled(fundID uint64, at int64) sdk.Event {
	return sdk.NewEvent(EventTypeCrystallizationScheduled,
		sdk.NewAttribute(AttributeKeyFundId, strconv.FormatUint(fundID, 10)),
		sdk.NewAttribute(AttributeKeyScheduledTime, strconv.FormatInt(at, 10)),
	)
}
