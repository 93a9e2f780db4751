package keeper

import (
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// All tracked monetary magnitudes are bounded by 96 bits. sdkmath.Int is
// arbitrary precision up to its own cap, so the checks here enforce the
// tighter accounting bound and reject instead of wrapping or panicking.

// SafeMath provides bound-checked arithmetic for incentive accounting.
type SafeMath struct{}

// NewSafeMath creates a new SafeMath instance.
func NewSafeMath() *SafeMath {
	return &SafeMath{}
}

// CheckBound verifies a value fits the 96-bit accounting range.
func (sm *SafeMath) CheckBound(v sdkmath.Int) error {
	if v.IsNegative() {
		return types.ErrUnderflow.Wrapf("negative amount %s", v)
	}
	if v.GT(types.MaxTrackedAmount) {
		return types.ErrAmountBound.Wrapf("amount %s", v)
	}
	return nil
}

// AddBound performs addition and verifies the sum stays within the 96-bit
// accounting range.
func (sm *SafeMath) AddBound(a, b sdkmath.Int) (sdkmath.Int, error) {
	sum := a.Add(b)
	if err := sm.CheckBound(sum); err != nil {
		return sdkmath.ZeroInt(), types.ErrOverflow.Wrapf("%s + %s: %s", a, b, err)
	}
	return sum, nil
}

// SubNonNegative performs subtraction and rejects a negative result.
func (sm *SafeMath) SubNonNegative(a, b sdkmath.Int) (sdkmath.Int, error) {
	if b.GT(a) {
		return sdkmath.ZeroInt(), types.ErrUnderflow.Wrapf("%s - %s", a, b)
	}
	return a.Sub(b), nil
}

// MulDiv computes (a * b) / c with a big.Int intermediate, truncating.
func (sm *SafeMath) MulDiv(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	if c.IsZero() {
		return sdkmath.ZeroInt(), types.ErrOverflow.Wrap("division by zero in MulDiv")
	}
	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := new(big.Int).Quo(intermediate, c.BigInt())
	return sdkmath.NewIntFromBigInt(result), nil
}

// FractionOf applies a whole-percent fraction to a value, truncating.
func (sm *SafeMath) FractionOf(value sdkmath.Int, fraction uint64) sdkmath.Int {
	return value.MulRaw(int64(fraction)).QuoRaw(types.FractionBase)
}
