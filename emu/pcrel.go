package emu

// PCRelUnit executes the PC-relative family: ADDIUPC, LWPC, AUIPC, and
// ALUIPC. Every op in this family computes its result from the address of
// the instruction itself rather than a base register.
type PCRelUnit struct {
	regs *RegFile
	ls   *LoadStoreUnit
}

// NewPCRelUnit constructs a PCRelUnit bound to regs, sharing mem access
// through ls.
func NewPCRelUnit(regs *RegFile, ls *LoadStoreUnit) *PCRelUnit {
	return &PCRelUnit{regs: regs, ls: ls}
}

// ownAddress returns the address of the instruction currently being
// dispatched. By the time a handler runs, RegFile.PC has already been
// advanced past this instruction by Emulator.Step's call to IncPC.
func (p *PCRelUnit) ownAddress() uint32 {
	return p.regs.GetPC() - 4
}

func (p *PCRelUnit) executeAddiupc(rd uint8, imm18 uint32) Outcome {
	offset := signExt(imm18<<2, 20)
	p.regs.SetUnsigned(rd, uint32(int32(p.ownAddress())+offset))
	return OutcomeOK
}

func (p *PCRelUnit) executeLwpc(rd uint8, imm18 uint32) Outcome {
	offset := signExt(imm18<<2, 20)
	addr := uint32(int32(p.ownAddress()) + offset)
	return p.ls.executeLwpc(rd, addr)
}

func (p *PCRelUnit) executeAuipc(rd uint8, imm16 uint32) Outcome {
	p.regs.SetUnsigned(rd, p.ownAddress()+(imm16<<16))
	return OutcomeOK
}

func (p *PCRelUnit) executeAluipc(rd uint8, imm16 uint32) Outcome {
	v := p.ownAddress() + (imm16 << 16)
	p.regs.SetUnsigned(rd, v&0xFFFF0000)
	return OutcomeOK
}
