// Package feemath implements the integer arithmetic shared by the fee
// modules: pro rata accrual, high water mark pricing, dilution correction and
// crystallization cycle timing. Every division floors; intermediate products
// are carried on big.Int so overflow is reported rather than wrapped or panicked.
package feemath

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/basketlabs/fund/types"
)

const (
	SecondsPerHour = 3_600
	SecondsPerDay  = 86_400
	SecondsPerYear = 31_536_000

	// CrystallizationWindowSeconds is how long after a cycle starts the high
	// water mark fee remains settleable at the fund level.
	CrystallizationWindowSeconds = 7 * SecondsPerDay
)

// SharePriceScalar scales share prices: a price of exactly SharePriceScalar
// means one denomination asset unit per share. It is also the initial high
// water mark for a newly enabled performance fee.
var SharePriceScalar = sdkmath.NewInt(1_000_000)

// ProRataShares returns the raw (pre-dilution) shares accrued by an annual
// rate over a span of seconds.
//
// Formula (integer, floor):
//
//	perYear = floor(supply * rate)
//	raw     = floor(perYear * elapsedSeconds / SecondsPerYear)
//
// The rate multiply floors on the rate's fixed 18-decimal precision, matching
// the per-year amount a full year would settle.
func ProRataShares(supply sdkmath.Int, rate sdkmath.LegacyDec, elapsedSeconds int64) (sdkmath.Int, error) {
	if supply.IsNegative() || elapsedSeconds < 0 {
		return sdkmath.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if supply.IsZero() || elapsedSeconds == 0 || rate.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	acc := new(big.Int).Mul(supply.BigInt(), rate.BigInt())
	acc.Quo(acc, ratePrecision)
	acc.Mul(acc, big.NewInt(elapsedSeconds))
	acc.Quo(acc, big.NewInt(SecondsPerYear))
	return checkedInt(acc)
}

// DiluteShares converts a raw share amount into the amount to actually mint so
// that minting does not dilute the fee's own value.
//
// Formula (integer, floor):
//
//	minted = floor(raw * supply / (supply - raw))
//
// When raw meets or exceeds the supply the denominator is not positive and no
// mint amount exists; skipped is true and the fee is forfeited for the cycle.
func DiluteShares(raw, supply sdkmath.Int) (minted sdkmath.Int, skipped bool, err error) {
	if raw.IsNegative() || supply.IsNegative() {
		return sdkmath.Int{}, false, fmt.Errorf("invalid input: negative values not allowed")
	}
	if raw.IsZero() {
		return sdkmath.ZeroInt(), false, nil
	}
	if raw.GTE(supply) {
		return sdkmath.ZeroInt(), true, nil
	}

	num := new(big.Int).Mul(raw.BigInt(), supply.BigInt())
	num.Quo(num, new(big.Int).Sub(supply.BigInt(), raw.BigInt()))
	minted, err = checkedInt(num)
	return minted, false, err
}

// SharePrice returns the price of one share in denomination asset units scaled
// by SharePriceScalar: floor(gav * SharePriceScalar / supply). supply must be
// positive.
func SharePrice(gav, supply sdkmath.Int) (sdkmath.Int, error) {
	if !supply.IsPositive() {
		return sdkmath.Int{}, fmt.Errorf("share price requires a positive supply")
	}
	return MulDivFloor(gav, SharePriceScalar, supply)
}

// PerformanceShares returns the raw (pre-dilution) shares owed on the gain a
// holding has made above the high water mark.
//
// Formula (integer, floor):
//
//	gain      = price - highWaterMark        (zero fee when not positive)
//	gainValue = floor(gain * holding / SharePriceScalar)
//	feeValue  = floor(gainValue * rate)
//	raw       = floor(supply * feeValue / gav)
//
// holding is the share base the gain accrues on: the full supply for
// fund-level settlement, or a single investor's quantity. The conversion of
// feeValue back into shares always prices at the fund-wide gav/supply ratio.
// gav and supply must be positive.
func PerformanceShares(gav, supply, holding, price, highWaterMark sdkmath.Int, rate sdkmath.LegacyDec) (sdkmath.Int, error) {
	if !gav.IsPositive() || !supply.IsPositive() {
		return sdkmath.Int{}, fmt.Errorf("performance fee requires positive gav and supply")
	}
	if holding.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	gain := price.Sub(highWaterMark)
	if !gain.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}

	acc := new(big.Int).Mul(gain.BigInt(), holding.BigInt())
	acc.Quo(acc, SharePriceScalar.BigInt())
	acc.Mul(acc, rate.BigInt())
	acc.Quo(acc, ratePrecision)
	acc.Mul(acc, supply.BigInt())
	acc.Quo(acc, gav.BigInt())
	return checkedInt(acc)
}

// SettlementDue reports whether a high water mark settlement window is open:
// the cycle phase must be inside the crystallization window and the fee must
// not have settled since the cycle started.
func SettlementDue(now, created, periodSeconds, lastPaid int64) bool {
	if periodSeconds <= 0 || now < created {
		return false
	}
	phase := (now - created) % periodSeconds
	cycleStart := now - phase
	return phase <= CrystallizationWindowSeconds && lastPaid < cycleStart
}

// NextCycleStart returns the start of the first crystallization cycle strictly
// after now. Cycles begin at created and repeat every periodSeconds.
func NextCycleStart(now, created, periodSeconds int64) int64 {
	if periodSeconds <= 0 {
		return 0
	}
	if now < created {
		return created + periodSeconds
	}
	phase := (now - created) % periodSeconds
	return now - phase + periodSeconds
}

// MulDivFloor returns floor(a * b / c) with the product carried on big.Int.
// Inputs must not be negative.
func MulDivFloor(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	if !c.IsPositive() {
		return sdkmath.Int{}, fmt.Errorf("division requires a positive divisor")
	}
	if a.IsNegative() || b.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	acc := new(big.Int).Mul(a.BigInt(), b.BigInt())
	acc.Quo(acc, c.BigInt())
	return checkedInt(acc)
}

// MulDivCeil returns ceil(a * b / c) with the product carried on big.Int.
// Inputs must not be negative.
func MulDivCeil(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	if !c.IsPositive() {
		return sdkmath.Int{}, fmt.Errorf("division requires a positive divisor")
	}
	if a.IsNegative() || b.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	acc := new(big.Int).Mul(a.BigInt(), b.BigInt())
	acc.Add(acc, new(big.Int).Sub(c.BigInt(), big.NewInt(1)))
	acc.Quo(acc, c.BigInt())
	return checkedInt(acc)
}

// SafeAdd returns a+b, reporting overflow instead of panicking. Inputs must
// not be negative.
func SafeAdd(a, b sdkmath.Int) (sdkmath.Int, error) {
	if a.IsNegative() || b.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	return checkedInt(new(big.Int).Add(a.BigInt(), b.BigInt()))
}

// SafeSub returns a-b, erroring when the result would be negative.
func SafeSub(a, b sdkmath.Int) (sdkmath.Int, error) {
	if a.IsNegative() || b.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if a.LT(b) {
		return sdkmath.Int{}, fmt.Errorf("subtraction below zero: %s - %s", a, b)
	}
	return a.Sub(b), nil
}

// ratePrecision is the fixed denominator of LegacyDec rates (1e18).
var ratePrecision = sdkmath.LegacyOneDec().BigInt()

// checkedInt converts a big.Int result back to sdkmath.Int, reporting overflow
// instead of panicking.
func checkedInt(v *big.Int) (sdkmath.Int, error) {
	if v.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, types.ErrArithmeticOverflow
	}
	return sdkmath.NewIntFromBigInt(v), nil
}
