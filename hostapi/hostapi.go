// Package hostapi is the contract between the AIWC measurement core and
// the host LLVM-IR interpreter that drives it. The interpreter, the
// OpenCL API shim and the ICD all live outside this module; this
// package only names the shapes the core needs from them.
package hostapi

// AddressSpace classifies the memory region a load, store or atomic
// operation targets.
type AddressSpace int

const (
	Private AddressSpace = iota
	Local
	Global
	Constant
)

func (a AddressSpace) String() string {
	switch a {
	case Private:
		return "private"
	case Local:
		return "local"
	case Global:
		return "global"
	case Constant:
		return "constant"
	default:
		return "unknown"
	}
}

// AtomicOp identifies the kind of atomic operation performed. The core
// does not currently branch on the specific op, only on the address
// space of the region it targets, but the value is threaded through so
// a host can be precise about what it reports.
type AtomicOp int

const (
	AtomicUnknown AtomicOp = iota
	AtomicAdd
	AtomicSub
	AtomicXchg
	AtomicCmpXchg
	AtomicAnd
	AtomicOr
	AtomicXor
	AtomicMin
	AtomicMax
)

// Instruction is a single retired IR instruction, as seen by
// instructionExecuted. Implementations are supplied by the host; the
// core never constructs one itself.
type Instruction interface {
	// Opcode is the mnemonic used as the key of computeOps, e.g. "add",
	// "load", "br". The worker package special-cases exactly the
	// strings "load" and "store" for address-space classification, and
	// "br" only insofar as IsConditionalBranch reports true — hosts
	// must use LLVM's lowercase opcode names.
	Opcode() string

	// OperandCount reports how many operands the instruction carries.
	OperandCount() int

	// IsLabelOperand reports whether operand i is a basic-block label.
	// Only meaningful for i < OperandCount().
	IsLabelOperand(i int) bool

	// OperandLabel returns the textual form of a label operand, the
	// same representation the parent-block name comparison in
	// InstructionExecuted uses to classify branch outcomes.
	OperandLabel(i int) string

	// ParentBlockLabel is the textual name of the basic block this
	// instruction lives in — compared against a pending branch's
	// target labels to classify taken/not-taken.
	ParentBlockLabel() string

	// PointerOperandName is the textual name of the pointer operand of
	// a Load or Store instruction. Meaningless for other opcodes.
	PointerOperandName() string

	// PointerAddressSpace is the address space of the pointer operand
	// of a Load or Store instruction. Meaningless for other opcodes.
	PointerAddressSpace() AddressSpace

	// Line is the debug-location source line, or 0 if unavailable.
	Line() uint32

	// ResultWidth is the SIMD element count of the instruction's
	// result value.
	ResultWidth() uint32

	// IsConditionalBranch reports whether this is a two-target
	// conditional branch (opcode Br with exactly 3 operands, the last
	// two being labels).
	IsConditionalBranch() bool
}

// MemoryRegion is the memory a load/store/atomic touches.
type MemoryRegion interface {
	AddressSpace() AddressSpace
}
