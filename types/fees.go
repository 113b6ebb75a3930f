package types

import (
	sdkmath "cosmossdk.io/math"

	"cosmossdk.io/errors"
)

// FeeHook identifies the settlement point a fee participates in.
type FeeHook string

const (
	// HookMilestone fees settle at valuation milestones, before any operation
	// that changes the share supply.
	HookMilestone FeeHook = "milestone"
	// HookExit fees settle when an investor redeems out of the fund.
	HookExit FeeHook = "exit"
)

const (
	// TimeBasedFeeID identifies the time based (management style) fee module.
	TimeBasedFeeID = "time_based"
	// HighWaterMarkFeeID identifies the high water mark (performance style) fee module.
	HighWaterMarkFeeID = "high_water_mark"
)

// EnabledFee records a fee enabled on a fund together with its hook tag.
type EnabledFee struct {
	// FeeId is the fee module identifier.
	FeeId string `json:"fee_id"`
	// Hook is the settlement point the fee participates in.
	Hook FeeHook `json:"hook"`
}

// TimeBasedFeeConfig is the settings payload supplied when enabling the time
// based fee on a fund.
type TimeBasedFeeConfig struct {
	// Rate is the annual fee rate as a decimal string, e.g. "0.02" for 2%.
	Rate string `json:"rate"`
}

// HighWaterMarkFeeConfig is the settings payload supplied when enabling the
// high water mark fee on a fund.
type HighWaterMarkFeeConfig struct {
	// Rate is the performance fee rate as a decimal string, e.g. "0.2" for 20%.
	Rate string `json:"rate"`
	// PeriodSeconds is the length of one crystallization cycle in seconds.
	PeriodSeconds int64 `json:"period_seconds"`
}

// TimeBasedFeeSettings is the per-fund state of the time based fee module.
type TimeBasedFeeSettings struct {
	// Rate is the annual fee rate as a decimal string.
	Rate string `json:"rate"`
	// LastPaidTime is the unix time the fee last settled at the fund level.
	LastPaidTime int64 `json:"last_paid_time"`
}

// Validate checks the settings fields.
func (s TimeBasedFeeSettings) Validate() error {
	if _, err := ValidateFeeRate(s.Rate); err != nil {
		return err
	}
	if s.LastPaidTime < 0 {
		return errors.Wrapf(ErrInvalidSettings, "negative last paid time %d", s.LastPaidTime)
	}
	return nil
}

// HighWaterMarkFeeSettings is the per-fund state of the high water mark fee module.
type HighWaterMarkFeeSettings struct {
	// Rate is the performance fee rate as a decimal string.
	Rate string `json:"rate"`
	// PeriodSeconds is the length of one crystallization cycle in seconds.
	PeriodSeconds int64 `json:"period_seconds"`
	// CreatedTime is the unix time the fee was enabled; cycles are measured
	// from this instant.
	CreatedTime int64 `json:"created_time"`
	// LastPaidTime is the unix time the fee last settled at the fund level.
	LastPaidTime int64 `json:"last_paid_time"`
	// HighWaterMark is the highest settled share price, in denomination asset
	// units per share scaled by the share price scalar.
	HighWaterMark sdkmath.Int `json:"high_water_mark"`
}

// Validate checks the settings fields.
func (s HighWaterMarkFeeSettings) Validate() error {
	if _, err := ValidateFeeRate(s.Rate); err != nil {
		return err
	}
	if s.PeriodSeconds <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "period must be positive, got %d", s.PeriodSeconds)
	}
	if s.CreatedTime < 0 || s.LastPaidTime < 0 {
		return errors.Wrap(ErrInvalidSettings, "negative timestamp")
	}
	if s.HighWaterMark.IsNil() || !s.HighWaterMark.IsPositive() {
		return errors.Wrap(ErrInvalidSettings, "high water mark must be positive")
	}
	return nil
}

// ValidateFeeRate parses a decimal rate string and bounds it to (0, 1).
func ValidateFeeRate(rate string) (sdkmath.LegacyDec, error) {
	dec, err := sdkmath.LegacyNewDecFromStr(rate)
	if err != nil {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrInvalidSettings, "invalid rate %q: %v", rate, err)
	}
	if !dec.IsPositive() {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrInvalidSettings, "rate must be positive, got %s", rate)
	}
	if dec.GTE(sdkmath.LegacyOneDec()) {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrInvalidSettings, "rate must be less than one, got %s", rate)
	}
	return dec, nil
}
