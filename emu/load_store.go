package emu

// LoadStoreUnit executes the I-type load and store family against a
// shared Memory, translating memory Outcomes straight through to the
// instruction's own outcome.
type LoadStoreUnit struct {
	regs *RegFile
	mem  *Memory
}

// NewLoadStoreUnit constructs a LoadStoreUnit bound to regs and mem.
func NewLoadStoreUnit(regs *RegFile, mem *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{regs: regs, mem: mem}
}

func (l *LoadStoreUnit) address(rs uint8, imm16 uint16) uint32 {
	return uint32(int32(l.regs.Get(rs)) + signExt(uint32(imm16), 16))
}

func (l *LoadStoreUnit) executeLb(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	v, outcome := l.mem.Read8(addr)
	if outcome != OutcomeOK {
		return outcome
	}
	l.regs.SetSigned(rt, int32(int8(v)))
	return OutcomeOK
}

func (l *LoadStoreUnit) executeLbu(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	v, outcome := l.mem.Read8(addr)
	if outcome != OutcomeOK {
		return outcome
	}
	l.regs.SetUnsigned(rt, uint32(v))
	return OutcomeOK
}

func (l *LoadStoreUnit) executeLh(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	v, outcome := l.mem.Read16(addr)
	if outcome != OutcomeOK {
		return outcome
	}
	l.regs.SetSigned(rt, int32(int16(v)))
	return OutcomeOK
}

func (l *LoadStoreUnit) executeLhu(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	v, outcome := l.mem.Read16(addr)
	if outcome != OutcomeOK {
		return outcome
	}
	l.regs.SetUnsigned(rt, uint32(v))
	return OutcomeOK
}

func (l *LoadStoreUnit) executeLw(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	v, outcome := l.mem.Read32(addr)
	if outcome != OutcomeOK {
		return outcome
	}
	l.regs.SetUnsigned(rt, v)
	return OutcomeOK
}

func (l *LoadStoreUnit) executeSb(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	return l.mem.Write8(addr, uint8(l.regs.Get(rt)))
}

func (l *LoadStoreUnit) executeSh(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	return l.mem.Write16(addr, uint16(l.regs.Get(rt)))
}

func (l *LoadStoreUnit) executeSw(rt, rs uint8, imm16 uint16) Outcome {
	addr := l.address(rs, imm16)
	return l.mem.Write32(addr, l.regs.Get(rt))
}

// executeLwpc implements the PC-relative load LWPC: the effective address
// is computed from the instruction's own PC rather than a base register.
func (l *LoadStoreUnit) executeLwpc(rd uint8, addr uint32) Outcome {
	v, outcome := l.mem.Read32(addr)
	if outcome != OutcomeOK {
		return outcome
	}
	l.regs.SetUnsigned(rd, v)
	return OutcomeOK
}
