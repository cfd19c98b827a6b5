package emu

import (
	"fmt"
	"io"

	"github.com/antlilja/mips-emulator/insts"
)

// Logger is the minimal sink the core writes per-step trace lines to. It is
// satisfied by *log.Logger and by anything wrapping an io.Writer, so hosts
// can plug in their own logging stack without the core importing it.
type Logger interface {
	Printf(format string, args ...any)
}

type writerLogger struct{ w io.Writer }

func (l writerLogger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, format+"\n", args...)
}

// Emulator wires a register file, a memory adapter, a decoder, and the
// per-family execution units into a single sequential stepper.
type Emulator struct {
	Regs *RegFile
	Mem  *Memory

	decoder *insts.Decoder
	alu     *ALU
	branch  *BranchUnit
	ls      *LoadStoreUnit
	bitf    *BitfieldUnit
	pcrel   *PCRelUnit

	logger Logger
	trace  bool
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithLogger installs a custom Logger and enables per-step tracing to it.
// The default discards trace output.
func WithLogger(logger Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
		e.trace = true
	}
}

// WithTraceWriter enables per-step tracing to w, formatted through a
// default Logger.
func WithTraceWriter(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.logger = writerLogger{w: w}
		e.trace = true
	}
}

// WithMMIO installs an MMIO delegate on the emulator's memory.
func WithMMIO(mmio MMIO) EmulatorOption {
	return func(e *Emulator) { e.Mem.SetMMIO(mmio) }
}

// WithEntryPoint sets the initial program counter.
func WithEntryPoint(pc uint32) EmulatorOption {
	return func(e *Emulator) { e.Regs.SetPC(pc) }
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// NewEmulator constructs an Emulator over mem, applying opts in order.
func NewEmulator(mem *Memory, opts ...EmulatorOption) *Emulator {
	regs := NewRegFile()
	e := &Emulator{
		Regs:    regs,
		Mem:     mem,
		decoder: insts.NewDecoder(),
		alu:     NewALU(regs),
		branch:  NewBranchUnit(regs),
		ls:      NewLoadStoreUnit(regs, mem),
		bitf:    NewBitfieldUnit(regs),
		logger:  discardLogger{},
	}
	e.pcrel = NewPCRelUnit(regs, e.ls)

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Reset zeroes every general-purpose register, leaving the PC and any
// pending delay-slot branch untouched, so a host can clear register state
// between program runs without losing its place in the instruction stream.
func (e *Emulator) Reset() {
	e.Regs.ZeroAll()
}

// Step fetches, decodes, and executes exactly one instruction. It returns
// the instruction's outcome and the decoded instruction itself, for
// callers that want to log or assert on what ran.
//
// Step does not resolve a pending delay-slotted branch by itself: the
// instruction fetched here may be sitting in a delay slot scheduled by the
// previous Step. Once that delay-slot instruction has executed, call
// UpdatePC on Regs to commit the transfer.
func (e *Emulator) Step() (Outcome, insts.Instruction) {
	word, outcome := e.Mem.Read32(e.Regs.GetPC())
	if outcome != OutcomeOK {
		e.Regs.SignalException(CauseAdEL, e.Regs.GetPC())
		return outcome, insts.Instruction{}
	}

	e.Regs.IncPC()

	inst := e.decoder.Decode(word)
	if e.trace {
		e.logger.Printf("pc=%#08x word=%#08x family=%d op=%d", e.Regs.GetPC()-4, word, inst.Family, inst.Op)
	}

	result := e.dispatch(inst)
	if result != OutcomeOK && result != OutcomeTrap {
		e.Regs.SignalException(causeFor(result), word)
	}
	return result, inst
}

// Run steps the emulator until an outcome other than OutcomeOK is
// produced, or at least maxSteps instructions have executed (0 means
// unbounded). A delay-slot instruction always runs together with the branch
// that scheduled it, so the count can end one above maxSteps.
// It transparently applies UpdatePC whenever a delay slot was scheduled,
// so callers get ordinary fetch-execute semantics without hand-rolling
// the delay-slot protocol themselves.
func (e *Emulator) Run(maxSteps int) (Outcome, int) {
	steps := 0
	for maxSteps == 0 || steps < maxSteps {
		outcome, _ := e.Step()
		steps++
		if outcome != OutcomeOK {
			return outcome, steps
		}
		if e.Regs.BranchPending {
			outcome, _ = e.Step()
			steps++
			e.Regs.UpdatePC()
			if outcome != OutcomeOK {
				return outcome, steps
			}
		}
	}
	return OutcomeOK, steps
}

func causeFor(o Outcome) Cause {
	switch o {
	case OutcomeMemOOB, OutcomeMemUnaligned:
		return CauseAdEL
	case OutcomeDivByZero:
		return CauseDivByZero
	case OutcomeIllegal, OutcomeUnimplemented:
		return CauseRI
	default:
		return CauseNone
	}
}

func (e *Emulator) dispatch(inst insts.Instruction) Outcome {
	switch inst.Family {
	case insts.FamilyR:
		return e.dispatchR(inst)
	case insts.FamilyI:
		return e.dispatchI(inst)
	case insts.FamilyJ:
		return e.dispatchJ(inst)
	case insts.FamilyREGIMM:
		return e.branch.executeRegimmBranch(inst.Rs, inst.Imm16, inst.Op == insts.OpBLTZ)
	case insts.FamilySpecial3BSHFL:
		return e.dispatchBSHFL(inst)
	case insts.FamilySpecial3EXT:
		return e.bitf.executeExt(inst.Rt, inst.Rs, inst.Lsb, inst.Msbd)
	case insts.FamilySpecial3INS:
		return e.bitf.executeIns(inst.Rt, inst.Rs, inst.Lsb, inst.Msb)
	case insts.FamilyPCRelType1:
		if inst.Op == insts.OpLWPC {
			return e.pcrel.executeLwpc(inst.Rd, inst.ImmPC)
		}
		return e.pcrel.executeAddiupc(inst.Rd, inst.ImmPC)
	case insts.FamilyPCRelType2:
		if inst.Op == insts.OpALUIPC {
			return e.pcrel.executeAluipc(inst.Rd, inst.ImmPC)
		}
		return e.pcrel.executeAuipc(inst.Rd, inst.ImmPC)
	case insts.FamilyFPUR, insts.FamilyFPUB, insts.FamilyFPUT, insts.FamilyLongImmI:
		return OutcomeUnimplemented
	default:
		return OutcomeIllegal
	}
}

func (e *Emulator) dispatchR(inst insts.Instruction) Outcome {
	switch inst.Op {
	case insts.OpADD, insts.OpADDU:
		return e.alu.executeAdd(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSUB, insts.OpSUBU:
		return e.alu.executeSub(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpAND:
		return e.alu.executeAnd(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpOR:
		return e.alu.executeOr(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpXOR:
		return e.alu.executeXor(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpNOR:
		return e.alu.executeNor(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLT:
		return e.alu.executeSlt(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLTU:
		return e.alu.executeSltu(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpMUL:
		return e.alu.executeMul(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpMUH:
		return e.alu.executeMuh(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpMULU:
		return e.alu.executeMulu(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpMUHU:
		return e.alu.executeMuhu(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpDIV:
		return e.alu.executeDiv(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpMOD:
		return e.alu.executeMod(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpDIVU:
		return e.alu.executeDivu(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpMODU:
		return e.alu.executeModu(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpJR:
		return e.branch.executeJr(inst.Rs)
	case insts.OpJALR:
		return e.branch.executeJalr(inst.Rd, inst.Rs)
	case insts.OpSLL:
		return e.alu.executeSll(inst.Rd, inst.Rt, inst.Shamt)
	case insts.OpSLLV:
		return e.alu.executeSllv(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSRA:
		return e.alu.executeSra(inst.Rd, inst.Rt, inst.Shamt)
	case insts.OpSRAV:
		return e.alu.executeSrav(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSRL:
		return e.alu.executeSrl(inst.Rd, inst.Rt, inst.Shamt)
	case insts.OpSRLV:
		return e.alu.executeSrlv(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpROTR:
		return e.alu.executeRotr(inst.Rd, inst.Rt, inst.Shamt)
	case insts.OpROTRV:
		return e.alu.executeRotrv(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSELEQZ:
		return e.alu.executeSeleqz(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSELNEZ:
		return e.alu.executeSelnez(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpCLZ:
		return e.alu.executeClz(inst.Rd, inst.Rs)
	case insts.OpCLO:
		return e.alu.executeClo(inst.Rd, inst.Rs)
	case insts.OpTEQ:
		return e.alu.executeTrap(inst.Rs, inst.Rt, e.Regs.Get(inst.Rs) == e.Regs.Get(inst.Rt))
	case insts.OpTNE:
		return e.alu.executeTrap(inst.Rs, inst.Rt, e.Regs.Get(inst.Rs) != e.Regs.Get(inst.Rt))
	case insts.OpTGE:
		return e.alu.executeTrap(inst.Rs, inst.Rt, e.Regs.GetSigned(inst.Rs) >= e.Regs.GetSigned(inst.Rt))
	case insts.OpTGEU:
		return e.alu.executeTrap(inst.Rs, inst.Rt, e.Regs.Get(inst.Rs) >= e.Regs.Get(inst.Rt))
	case insts.OpTLT:
		return e.alu.executeTrap(inst.Rs, inst.Rt, e.Regs.GetSigned(inst.Rs) < e.Regs.GetSigned(inst.Rt))
	case insts.OpTLTU:
		return e.alu.executeTrap(inst.Rs, inst.Rt, e.Regs.Get(inst.Rs) < e.Regs.Get(inst.Rt))
	default:
		return OutcomeIllegal
	}
}

func (e *Emulator) dispatchI(inst insts.Instruction) Outcome {
	switch inst.Op {
	case insts.OpADDIU:
		e.Regs.SetSigned(inst.Rt, e.Regs.GetSigned(inst.Rs)+inst.SignExtImm16())
		return OutcomeOK
	case insts.OpAUI:
		e.Regs.SetUnsigned(inst.Rt, e.Regs.Get(inst.Rs)+inst.ZeroExtImm16()<<16)
		return OutcomeOK
	case insts.OpLUI:
		e.Regs.SetUnsigned(inst.Rt, inst.ZeroExtImm16()<<16)
		return OutcomeOK
	case insts.OpSLTI:
		v := uint32(0)
		if e.Regs.GetSigned(inst.Rs) < inst.SignExtImm16() {
			v = 1
		}
		e.Regs.SetUnsigned(inst.Rt, v)
		return OutcomeOK
	case insts.OpSLTIU:
		v := uint32(0)
		if e.Regs.Get(inst.Rs) < uint32(inst.SignExtImm16()) {
			v = 1
		}
		e.Regs.SetUnsigned(inst.Rt, v)
		return OutcomeOK
	case insts.OpANDI:
		e.Regs.SetUnsigned(inst.Rt, e.Regs.Get(inst.Rs)&inst.ZeroExtImm16())
		return OutcomeOK
	case insts.OpORI:
		e.Regs.SetUnsigned(inst.Rt, e.Regs.Get(inst.Rs)|inst.ZeroExtImm16())
		return OutcomeOK
	case insts.OpXORI:
		e.Regs.SetUnsigned(inst.Rt, e.Regs.Get(inst.Rs)^inst.ZeroExtImm16())
		return OutcomeOK
	case insts.OpBEQ:
		return e.branch.executeBeq(inst.Rs, inst.Rt, inst.Imm16)
	case insts.OpBNE:
		return e.branch.executeBne(inst.Rs, inst.Rt, inst.Imm16)
	case insts.OpLB:
		return e.ls.executeLb(inst.Rt, inst.Rs, inst.Imm16)
	case insts.OpLBU:
		return e.ls.executeLbu(inst.Rt, inst.Rs, inst.Imm16)
	case insts.OpLH:
		return e.ls.executeLh(inst.Rt, inst.Rs, inst.Imm16)
	case insts.OpLHU:
		return e.ls.executeLhu(inst.Rt, inst.Rs, inst.Imm16)
	case insts.OpLW:
		return e.ls.executeLw(inst.Rt, inst.Rs, inst.Imm16)
	case insts.OpSB:
		return e.ls.executeSb(inst.Rt, inst.Rs, inst.Imm16)
	case insts.OpSH:
		return e.ls.executeSh(inst.Rt, inst.Rs, inst.Imm16)
	case insts.OpSW:
		return e.ls.executeSw(inst.Rt, inst.Rs, inst.Imm16)
	default:
		return e.dispatchCompactBranch(inst)
	}
}

func (e *Emulator) dispatchCompactBranch(inst insts.Instruction) Outcome {
	rs, rt := inst.Rs, inst.Rt
	offset := compactOffset(inst.Imm16)

	switch inst.Op {
	case insts.OpBLEZ:
		return e.branch.executeLegacyBranch(e.Regs.GetSigned(rs) <= 0, inst.Imm16)
	case insts.OpBGTZ:
		return e.branch.executeLegacyBranch(e.Regs.GetSigned(rs) > 0, inst.Imm16)
	case insts.OpBLEZALC:
		taken := e.Regs.GetSigned(rt) <= 0
		return e.branch.executeCompactBranch(taken, offset, true)
	case insts.OpBGEZALC:
		taken := e.Regs.GetSigned(rt) >= 0
		return e.branch.executeCompactBranch(taken, offset, true)
	case insts.OpBGTZALC:
		taken := e.Regs.GetSigned(rt) > 0
		return e.branch.executeCompactBranch(taken, offset, true)
	case insts.OpBLTZALC:
		taken := e.Regs.GetSigned(rt) < 0
		return e.branch.executeCompactBranch(taken, offset, true)
	case insts.OpBGEUC:
		taken := e.Regs.Get(rs) >= e.Regs.Get(rt)
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBLTUC:
		taken := e.Regs.Get(rs) < e.Regs.Get(rt)
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBEQZALC:
		taken := e.Regs.Get(rt) == 0
		return e.branch.executeCompactBranch(taken, offset, true)
	case insts.OpBNEZALC:
		taken := e.Regs.Get(rt) != 0
		return e.branch.executeCompactBranch(taken, offset, true)
	case insts.OpBEQC:
		taken := e.Regs.Get(rs) == e.Regs.Get(rt)
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBNEC:
		taken := e.Regs.Get(rs) != e.Regs.Get(rt)
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBGEC:
		taken := e.Regs.GetSigned(rs) >= e.Regs.GetSigned(rt)
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBLTC:
		taken := e.Regs.GetSigned(rs) < e.Regs.GetSigned(rt)
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBLEZC:
		taken := e.Regs.GetSigned(rt) <= 0
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBGEZC:
		taken := e.Regs.GetSigned(rt) >= 0
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBGTZC:
		taken := e.Regs.GetSigned(rt) > 0
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBLTZC:
		taken := e.Regs.GetSigned(rt) < 0
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBOVC:
		_, taken := addWithOverflow(e.Regs.GetSigned(rs), e.Regs.GetSigned(rt))
		return e.branch.executeCompactBranch(taken, offset, false)
	case insts.OpBNVC:
		_, overflow := addWithOverflow(e.Regs.GetSigned(rs), e.Regs.GetSigned(rt))
		return e.branch.executeCompactBranch(!overflow, offset, false)
	default:
		return OutcomeIllegal
	}
}

func addWithOverflow(x, y int32) (int32, bool) {
	sum := x + y
	return sum, addOverflows(x, y, sum)
}

func (e *Emulator) dispatchJ(inst insts.Instruction) Outcome {
	switch inst.Op {
	case insts.OpJ:
		return e.branch.executeJ(inst.Imm26)
	case insts.OpJAL:
		return e.branch.executeJal(inst.Imm26)
	case insts.OpBC:
		return e.branch.executeCompactJump(inst.Imm26, false)
	case insts.OpBALC:
		return e.branch.executeCompactJump(inst.Imm26, true)
	default:
		return OutcomeIllegal
	}
}

func (e *Emulator) dispatchBSHFL(inst insts.Instruction) Outcome {
	switch inst.Op {
	case insts.OpBITSWAP:
		return e.bitf.executeBitswap(inst.Rd, inst.Rt)
	case insts.OpWSBH:
		return e.bitf.executeWsbh(inst.Rd, inst.Rt)
	case insts.OpSEB:
		return e.bitf.executeSeb(inst.Rd, inst.Rt)
	case insts.OpSEH:
		return e.bitf.executeSeh(inst.Rd, inst.Rt)
	case insts.OpALIGN:
		return e.bitf.executeAlign(inst.Rd, inst.Rs, inst.Rt, inst.Bp)
	default:
		return OutcomeIllegal
	}
}
