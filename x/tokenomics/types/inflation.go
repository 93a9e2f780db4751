package types

import (
	sdkmath "cosmossdk.io/math"
)

// The OLAS emission schedule is fixed for the first ten years and grows the
// supply cap by two percent per year afterwards. All amounts are 1e18 base
// units; years are 365-day periods counted from launch.

const (
	// OneYearSeconds is the length of an inflation year.
	OneYearSeconds int64 = 365 * 24 * 3600

	// FixedSupplyYears is the number of years with a hard-coded supply cap.
	FixedSupplyYears = 10

	// LateInflationPercent is the yearly supply growth after the fixed
	// schedule ends.
	LateInflationPercent int64 = 2
)

// InitialSupply is the amount minted at launch, before any inflation.
var InitialSupply = olas(526_500_000)

// supplyCaps holds the cumulative supply allowed by the end of each of the
// first ten years.
var supplyCaps = [FixedSupplyYears]sdkmath.Int{
	olas(529_659_000),
	olas(569_913_084),
	olas(610_313_084),
	olas(666_313_084),
	olas(746_313_084),
	olas(818_313_084),
	olas(882_313_084),
	olas(930_313_084),
	olas(970_313_084),
	olas(1_000_000_000),
}

func olas(whole int64) sdkmath.Int {
	return sdkmath.NewInt(whole).Mul(OneFixed)
}

// SupplyCapForYear returns the cumulative supply cap at the end of the given
// year. Beyond the fixed schedule the cap compounds by LateInflationPercent.
func SupplyCapForYear(year uint64) sdkmath.Int {
	if year < FixedSupplyYears {
		return supplyCaps[year]
	}
	cap := supplyCaps[FixedSupplyYears-1]
	for y := uint64(FixedSupplyYears); y <= year; y++ {
		cap = cap.MulRaw(100 + LateInflationPercent).QuoRaw(100)
	}
	return cap
}

// InflationForYear returns the total amount mintable during the given year.
func InflationForYear(year uint64) sdkmath.Int {
	if year == 0 {
		return supplyCaps[0].Sub(InitialSupply)
	}
	return SupplyCapForYear(year).Sub(SupplyCapForYear(year - 1))
}

// InflationPerSecondForYear returns the per-second inflation rate of the
// given year, truncated.
func InflationPerSecondForYear(year uint64) sdkmath.Int {
	return InflationForYear(year).QuoRaw(OneYearSeconds)
}

// YearOfTimestamp maps a unix timestamp onto the inflation year counted from
// timeLaunch. Timestamps before launch map to year zero.
func YearOfTimestamp(timestamp, timeLaunch int64) uint64 {
	if timestamp <= timeLaunch {
		return 0
	}
	return uint64((timestamp - timeLaunch) / OneYearSeconds)
}

// YearStart returns the unix timestamp at which the given inflation year
// begins.
func YearStart(year uint64, timeLaunch int64) int64 {
	return timeLaunch + int64(year)*OneYearSeconds
}

// InflationForInterval integrates the per-second inflation rate over
// [from, to), splitting the interval at every year boundary it crosses so
// each sub-interval uses its own year's rate. A non-positive interval yields
// zero.
func InflationForInterval(timeLaunch, from, to int64) sdkmath.Int {
	if to <= from {
		return sdkmath.ZeroInt()
	}
	yFrom := YearOfTimestamp(from, timeLaunch)
	yTo := YearOfTimestamp(to, timeLaunch)
	if yFrom == yTo {
		return InflationPerSecondForYear(yFrom).MulRaw(to - from)
	}

	// Interior years accrue at their truncated per-second rate too, so
	// summing adjacent intervals equals integrating the union.
	total := InflationPerSecondForYear(yFrom).MulRaw(YearStart(yFrom+1, timeLaunch) - from)
	for y := yFrom + 1; y < yTo; y++ {
		total = total.Add(InflationPerSecondForYear(y).MulRaw(OneYearSeconds))
	}
	return total.Add(InflationPerSecondForYear(yTo).MulRaw(to - YearStart(yTo, timeLaunch)))
}

// IntervalCrossesYear reports whether [from, to) spans at least one year
// boundary.
func IntervalCrossesYear(timeLaunch, from, to int64) bool {
	return YearOfTimestamp(to, timeLaunch) > YearOfTimestamp(from, timeLaunch)
}
