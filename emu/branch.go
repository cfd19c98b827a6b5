package emu

// BranchUnit executes J-type, REGIMM, and the legacy delay-slotted I-type
// branches (BEQ/BNE), plus the R6 compact-branch family, which all share
// the same "compute target, then transfer" shape.
type BranchUnit struct {
	regs *RegFile
}

// NewBranchUnit constructs a BranchUnit bound to regs.
func NewBranchUnit(regs *RegFile) *BranchUnit {
	return &BranchUnit{regs: regs}
}

// jumpTarget computes the J-type absolute target: the low 26 bits shifted
// left 2, with the top 4 bits of the delay-slot address preserved.
func (b *BranchUnit) jumpTarget(imm26 uint32) uint32 {
	return (imm26 << 2) | (b.regs.GetPC() & 0xF0000000)
}

// executeJ executes J: an unconditional delay-slotted jump with no link.
func (b *BranchUnit) executeJ(imm26 uint32) Outcome {
	b.regs.DelayedBranch(b.jumpTarget(imm26))
	return OutcomeOK
}

// executeJal executes JAL: same as J, but writes the return address ($ra)
// first.
func (b *BranchUnit) executeJal(imm26 uint32) Outcome {
	b.regs.SetUnsigned(RegRa, b.regs.GetPC()+4)
	b.regs.DelayedBranch(b.jumpTarget(imm26))
	return OutcomeOK
}

// executeJr executes JR: an unconditional delay-slotted jump to a register
// value.
func (b *BranchUnit) executeJr(rs uint8) Outcome {
	b.regs.DelayedBranch(b.regs.Get(rs))
	return OutcomeOK
}

// executeJalr executes JALR: JR, plus writing the return address into rd.
func (b *BranchUnit) executeJalr(rd, rs uint8) Outcome {
	target := b.regs.Get(rs)
	b.regs.SetUnsigned(rd, b.regs.GetPC()+4)
	b.regs.DelayedBranch(target)
	return OutcomeOK
}

// delayedBranchOffset schedules a delay-slotted branch at pc + offset,
// where pc is the already-incremented program counter (the delay-slot
// address).
func (b *BranchUnit) delayedBranchOffset(offset int32) {
	b.regs.DelayedBranch(uint32(int32(b.regs.GetPC()) + offset))
}

// executeBeq executes BEQ, a delay-slotted conditional branch.
func (b *BranchUnit) executeBeq(rs, rt uint8, imm16 uint16) Outcome {
	if b.regs.Get(rs) == b.regs.Get(rt) {
		b.delayedBranchOffset(signExt(uint32(imm16), 16) << 2)
	}
	return OutcomeOK
}

// executeBne executes BNE, a delay-slotted conditional branch.
func (b *BranchUnit) executeBne(rs, rt uint8, imm16 uint16) Outcome {
	if b.regs.Get(rs) != b.regs.Get(rt) {
		b.delayedBranchOffset(signExt(uint32(imm16), 16) << 2)
	}
	return OutcomeOK
}

// executeRegimmBranch executes BLTZ/BGEZ, delay-slotted conditional
// branches on a register's sign.
func (b *BranchUnit) executeRegimmBranch(rs uint8, imm16 uint16, wantNeg bool) Outcome {
	neg := b.regs.GetSigned(rs) < 0
	if neg == wantNeg {
		b.delayedBranchOffset(signExt(uint32(imm16), 16) << 2)
	}
	return OutcomeOK
}

// executeLegacyBranch executes a delay-slotted conditional branch whose
// condition has already been evaluated by the caller (BLEZ/BGTZ, the
// legacy rt==0 forms of the POP06/POP07 groups).
func (b *BranchUnit) executeLegacyBranch(taken bool, imm16 uint16) Outcome {
	if taken {
		b.delayedBranchOffset(signExt(uint32(imm16), 16) << 2)
	}
	return OutcomeOK
}

// compactOffset converts the raw 16-bit compact-branch immediate into a
// byte offset relative to the already-incremented PC.
func compactOffset(imm16 uint16) int32 {
	return signExt(uint32(imm16), 16) << 2
}

// executeCompactBranch implements the R6 "forbidden slot" branches: no
// delay slot, so a taken branch sets PC directly; when link is true, it
// always writes $ra to the address immediately following this
// instruction regardless of whether the branch is taken.
func (b *BranchUnit) executeCompactBranch(taken bool, offset int32, link bool) Outcome {
	// Step's IncPC has already advanced PC past this instruction; with no
	// delay slot, that address IS the next sequential instruction and,
	// for the *ALC mnemonics, the link target too.
	next := b.regs.GetPC()
	if link {
		b.regs.SetUnsigned(RegRa, next)
	}
	if taken {
		b.regs.SetPC(uint32(int32(next) + offset))
	}
	return OutcomeOK
}

// executeCompactJump implements BC/BALC: unconditional, no delay slot,
// 26-bit PC-relative offset.
func (b *BranchUnit) executeCompactJump(imm26 uint32, link bool) Outcome {
	offset := signExt(imm26<<2, 28)
	next := b.regs.GetPC()
	if link {
		b.regs.SetUnsigned(RegRa, next)
	}
	b.regs.SetPC(uint32(int32(next) + offset))
	return OutcomeOK
}
