package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Module error registry. Code 1 is reserved by the SDK.
var (
	ErrUnauthorized       = errorsmod.Register(ModuleName, 2, "caller is not authorized for this operation")
	ErrWrongArrayLength   = errorsmod.Register(ModuleName, 3, "input arrays have mismatched lengths")
	ErrZeroValue          = errorsmod.Register(ModuleName, 4, "value must be greater than zero")
	ErrUnitTypeRange      = errorsmod.Register(ModuleName, 5, "unit type out of range")
	ErrUnitOrder          = errorsmod.Register(ModuleName, 6, "unit identifiers must be strictly increasing")
	ErrServiceNotFound    = errorsmod.Register(ModuleName, 7, "service does not exist")
	ErrOwnerMismatch      = errorsmod.Register(ModuleName, 8, "account does not own the unit")
	ErrBlacklistedDonator = errorsmod.Register(ModuleName, 9, "donator account is blacklisted")
	ErrAmountBound        = errorsmod.Register(ModuleName, 10, "amount exceeds the 96-bit accounting bound")
	ErrOverflow           = errorsmod.Register(ModuleName, 11, "arithmetic overflow")
	ErrUnderflow          = errorsmod.Register(ModuleName, 12, "arithmetic underflow")
	ErrParamOutOfBounds   = errorsmod.Register(ModuleName, 13, "parameter value out of bounds")
	ErrFractionSum        = errorsmod.Register(ModuleName, 14, "incentive fractions exceed 100 percent")
	ErrMaxBondLocked      = errorsmod.Register(ModuleName, 15, "bond capacity is locked until the year-crossing epoch settles")
	ErrBondAdjustment     = errorsmod.Register(ModuleName, 16, "bond capacity reduction exceeds unreserved capacity")
	ErrInvalidGenesis     = errorsmod.Register(ModuleName, 17, "invalid genesis state")
)
