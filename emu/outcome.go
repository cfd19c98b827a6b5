package emu

// Outcome is the closed result taxonomy every instruction execution
// produces. There is no panic/recover path through execution: every
// fault the core can detect surfaces as one of these values.
type Outcome uint8

const (
	// OutcomeOK means the instruction completed normally.
	OutcomeOK Outcome = iota
	// OutcomeIllegal means the word did not decode to a known instruction.
	OutcomeIllegal
	// OutcomeMemUnaligned means a memory access violated natural alignment.
	OutcomeMemUnaligned
	// OutcomeMemOOB means a memory access fell outside the addressable range.
	OutcomeMemOOB
	// OutcomeDivByZero means a div/mod family op saw a zero divisor.
	OutcomeDivByZero
	// OutcomeTrap means a conditional trap instruction fired.
	OutcomeTrap
	// OutcomeUnimplemented means the op decoded but this core does not
	// execute it (FPU families).
	OutcomeUnimplemented
)

// String renders the outcome the way log lines and test failures expect
// to see it.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeIllegal:
		return "illegal"
	case OutcomeMemUnaligned:
		return "mem_unaligned"
	case OutcomeMemOOB:
		return "mem_oob"
	case OutcomeDivByZero:
		return "div_by_zero"
	case OutcomeTrap:
		return "trap"
	case OutcomeUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Cause classifies why an outcome other than OutcomeOK occurred, mirroring
// the coprocessor-0 Cause register's exception codes closely enough to be
// useful for logging without claiming full CP0 fidelity.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseAdEL       // address error, load/fetch
	CauseAdES       // address error, store
	CauseRI         // reserved instruction
	CauseOv         // integer overflow
	CauseTr         // trap
	CauseDivByZero
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseAdEL:
		return "address_error_load"
	case CauseAdES:
		return "address_error_store"
	case CauseRI:
		return "reserved_instruction"
	case CauseOv:
		return "overflow"
	case CauseTr:
		return "trap"
	case CauseDivByZero:
		return "div_by_zero"
	default:
		return "unknown"
	}
}
