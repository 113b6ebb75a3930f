package types

import "cosmossdk.io/errors"

var (
	// ErrUnauthorized is returned when an operation is attempted by an account
	// that does not hold the required role.
	ErrUnauthorized = errors.Register(ModuleName, 2, "unauthorized")
	// ErrInvalidSettings is returned when a fee settings payload is malformed
	// or out of range.
	ErrInvalidSettings = errors.Register(ModuleName, 3, "invalid fee settings")
	// ErrEmptyInput is returned when a batch operation receives no entries.
	ErrEmptyInput = errors.Register(ModuleName, 4, "empty input")
	// ErrLengthMismatch is returned when parallel batch arrays differ in length.
	ErrLengthMismatch = errors.Register(ModuleName, 5, "length mismatch")
	// ErrFeeAlreadyEnabled is returned when a fee is enabled twice on a fund.
	ErrFeeAlreadyEnabled = errors.Register(ModuleName, 6, "fee already enabled")
	// ErrUnknownFee is returned when a fee id does not match a known fee module.
	ErrUnknownFee = errors.Register(ModuleName, 7, "unknown fee")
	// ErrInsufficientShares is returned when a holder's share balance cannot
	// cover the requested operation.
	ErrInsufficientShares = errors.Register(ModuleName, 8, "insufficient share balance")
	// ErrNoValidPrice is returned when the valuation oracle has no usable quote
	// for an asset.
	ErrNoValidPrice = errors.Register(ModuleName, 9, "no valid price")
	// ErrArithmeticOverflow is returned when a checked computation exceeds the
	// integer range.
	ErrArithmeticOverflow = errors.Register(ModuleName, 10, "arithmetic overflow")
	// ErrTransferFailed is returned when an asset transfer in or out of fund
	// custody fails.
	ErrTransferFailed = errors.Register(ModuleName, 11, "asset transfer failed")
	// ErrFundNotFound is returned when no fund exists for the given id.
	ErrFundNotFound = errors.Register(ModuleName, 12, "fund not found")
	// ErrAssetNotApproved is returned when an asset is not usable for purchases,
	// either missing from the fund allowlist or declined by the asset registry.
	ErrAssetNotApproved = errors.Register(ModuleName, 13, "asset not approved for investment")
	// ErrFeeNotApproved is returned when the fee registry has not approved a fee id.
	ErrFeeNotApproved = errors.Register(ModuleName, 14, "fee not approved by registry")
	// ErrInvalidShareQuantity is returned for zero or negative share quantities.
	ErrInvalidShareQuantity = errors.Register(ModuleName, 15, "invalid share quantity")
)
