package vm

import "github.com/lookbusy1344/arm-toy/isa"

// Flags holds the four condition bits CMP (and any flag-setting op)
// updates and Bcc consumes.
type Flags struct {
	N, Z, C, V bool
}

// Update computes op1 - op2 and sets N/Z/C/V per the two-phase algorithm:
// an unsigned pass determines C, then a signed pass determines N/Z/V
// (overwriting the unsigned path's N/Z on non-underflow).
func (f *Flags) Update(op1, op2 uint32) {
	if op1 < op2 {
		f.C = true
	} else {
		f.C = false
		result := op1 - op2
		f.Z = result == 0
		f.N = false
	}

	signed1, signed2 := int32(op1), int32(op2)
	signedResult := signed1 - signed2
	overflowed := (signed1 >= 0 && signed2 < 0 && signedResult < 0) ||
		(signed1 < 0 && signed2 >= 0 && signedResult >= 0)
	if overflowed {
		f.V = true
	} else {
		f.V = false
		f.Z = signedResult == 0
		f.N = signedResult < 0
	}
}

// Satisfied reports whether cc holds against the current flags.
func (f *Flags) Satisfied(cc isa.ConditionCode) bool {
	return cc.Satisfied(f.N, f.Z, f.C, f.V)
}
