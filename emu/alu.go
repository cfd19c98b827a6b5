package emu

import "math/bits"

// ALU executes the R-type arithmetic, logical, shift, and multiply/divide
// family. It is a thin, stateless unit operating on a shared RegFile, in
// keeping with the rest of the core's per-concern execution units.
type ALU struct {
	regs *RegFile
}

// NewALU constructs an ALU bound to regs.
func NewALU(regs *RegFile) *ALU {
	return &ALU{regs: regs}
}

// executeAdd implements both add and addu: this core does not trap on
// signed overflow, so the two are semantically identical two's-complement
// wrapping adds.
func (a *ALU) executeAdd(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rs)+a.regs.Get(rt))
	return OutcomeOK
}

// executeSub implements both sub and subu, for the same reason.
func (a *ALU) executeSub(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rs)-a.regs.Get(rt))
	return OutcomeOK
}

func addOverflows(x, y, sum int32) bool {
	return (x >= 0) == (y >= 0) && (sum >= 0) != (x >= 0)
}

func (a *ALU) executeAnd(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rs)&a.regs.Get(rt))
	return OutcomeOK
}

func (a *ALU) executeOr(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rs)|a.regs.Get(rt))
	return OutcomeOK
}

func (a *ALU) executeXor(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rs)^a.regs.Get(rt))
	return OutcomeOK
}

func (a *ALU) executeNor(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, ^(a.regs.Get(rs) | a.regs.Get(rt)))
	return OutcomeOK
}

func (a *ALU) executeSlt(rd, rs, rt uint8) Outcome {
	v := uint32(0)
	if a.regs.GetSigned(rs) < a.regs.GetSigned(rt) {
		v = 1
	}
	a.regs.SetUnsigned(rd, v)
	return OutcomeOK
}

func (a *ALU) executeSltu(rd, rs, rt uint8) Outcome {
	v := uint32(0)
	if a.regs.Get(rs) < a.regs.Get(rt) {
		v = 1
	}
	a.regs.SetUnsigned(rd, v)
	return OutcomeOK
}

func (a *ALU) executeMul(rd, rs, rt uint8) Outcome {
	x := int64(a.regs.GetSigned(rs))
	y := int64(a.regs.GetSigned(rt))
	a.regs.SetSigned(rd, int32(x*y))
	return OutcomeOK
}

func (a *ALU) executeMuh(rd, rs, rt uint8) Outcome {
	x := int64(a.regs.GetSigned(rs))
	y := int64(a.regs.GetSigned(rt))
	a.regs.SetSigned(rd, int32((x*y)>>32))
	return OutcomeOK
}

func (a *ALU) executeMulu(rd, rs, rt uint8) Outcome {
	_, lo := bits.Mul32(a.regs.Get(rs), a.regs.Get(rt))
	a.regs.SetUnsigned(rd, lo)
	return OutcomeOK
}

func (a *ALU) executeMuhu(rd, rs, rt uint8) Outcome {
	hi, _ := bits.Mul32(a.regs.Get(rs), a.regs.Get(rt))
	a.regs.SetUnsigned(rd, hi)
	return OutcomeOK
}

func (a *ALU) executeDiv(rd, rs, rt uint8) Outcome {
	y := a.regs.GetSigned(rt)
	if y == 0 {
		return OutcomeDivByZero
	}
	x := a.regs.GetSigned(rs)
	a.regs.SetSigned(rd, x/y)
	return OutcomeOK
}

func (a *ALU) executeMod(rd, rs, rt uint8) Outcome {
	y := a.regs.GetSigned(rt)
	if y == 0 {
		return OutcomeDivByZero
	}
	x := a.regs.GetSigned(rs)
	a.regs.SetSigned(rd, x%y)
	return OutcomeOK
}

func (a *ALU) executeDivu(rd, rs, rt uint8) Outcome {
	y := a.regs.Get(rt)
	if y == 0 {
		return OutcomeDivByZero
	}
	a.regs.SetUnsigned(rd, a.regs.Get(rs)/y)
	return OutcomeOK
}

func (a *ALU) executeModu(rd, rs, rt uint8) Outcome {
	y := a.regs.Get(rt)
	if y == 0 {
		return OutcomeDivByZero
	}
	a.regs.SetUnsigned(rd, a.regs.Get(rs)%y)
	return OutcomeOK
}

func (a *ALU) executeSll(rd, rt, shamt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rt)<<shamt)
	return OutcomeOK
}

func (a *ALU) executeSllv(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rt)<<(a.regs.Get(rs)&0x1F))
	return OutcomeOK
}

func (a *ALU) executeSra(rd, rt, shamt uint8) Outcome {
	a.regs.SetSigned(rd, a.regs.GetSigned(rt)>>shamt)
	return OutcomeOK
}

func (a *ALU) executeSrav(rd, rs, rt uint8) Outcome {
	a.regs.SetSigned(rd, a.regs.GetSigned(rt)>>(a.regs.Get(rs)&0x1F))
	return OutcomeOK
}

func (a *ALU) executeSrl(rd, rt, shamt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rt)>>shamt)
	return OutcomeOK
}

func (a *ALU) executeSrlv(rd, rs, rt uint8) Outcome {
	a.regs.SetUnsigned(rd, a.regs.Get(rt)>>(a.regs.Get(rs)&0x1F))
	return OutcomeOK
}

func (a *ALU) executeRotr(rd, rt, shamt uint8) Outcome {
	a.regs.SetUnsigned(rd, bits.RotateLeft32(a.regs.Get(rt), -int(shamt)))
	return OutcomeOK
}

func (a *ALU) executeRotrv(rd, rs, rt uint8) Outcome {
	shamt := a.regs.Get(rs) & 0x1F
	a.regs.SetUnsigned(rd, bits.RotateLeft32(a.regs.Get(rt), -int(shamt)))
	return OutcomeOK
}

func (a *ALU) executeSeleqz(rd, rs, rt uint8) Outcome {
	if a.regs.Get(rt) == 0 {
		a.regs.SetUnsigned(rd, a.regs.Get(rs))
	} else {
		a.regs.SetUnsigned(rd, 0)
	}
	return OutcomeOK
}

func (a *ALU) executeSelnez(rd, rs, rt uint8) Outcome {
	if a.regs.Get(rt) != 0 {
		a.regs.SetUnsigned(rd, a.regs.Get(rs))
	} else {
		a.regs.SetUnsigned(rd, 0)
	}
	return OutcomeOK
}

func (a *ALU) executeClz(rd, rs uint8) Outcome {
	a.regs.SetUnsigned(rd, uint32(bits.LeadingZeros32(a.regs.Get(rs))))
	return OutcomeOK
}

func (a *ALU) executeClo(rd, rs uint8) Outcome {
	a.regs.SetUnsigned(rd, uint32(bits.LeadingZeros32(^a.regs.Get(rs))))
	return OutcomeOK
}

// executeTrap evaluates a conditional-trap instruction and returns
// OutcomeTrap when the condition holds.
func (a *ALU) executeTrap(rs, rt uint8, taken bool) Outcome {
	if taken {
		a.regs.SignalException(CauseTr, 0)
		return OutcomeTrap
	}
	return OutcomeOK
}
