// Package worker implements the per-worker (per concurrently-executing
// work-group) event accumulator described as the Worker-Local
// Accumulator in the AIWC measurement core. Every method here runs
// single-threaded from the perspective of the worker that owns the
// State; nothing in this package takes a lock.
package worker

import (
	"fmt"
	"log"
	"os"

	"github.com/oclgrind/aiwc/hostapi"
)

// BranchMismatchError is raised when an instruction following a
// conditional branch belongs to neither of the branch's two recorded
// target blocks — a host contract violation.
type BranchMismatchError struct {
	Observed string
	Target1  string
	Target2  string
}

func (e *BranchMismatchError) Error() string {
	return fmt.Sprintf(
		"aiwc: branch classification failure: block %q matches neither target1 %q nor target2 %q",
		e.Observed, e.Target1, e.Target2)
}

// State mirrors Aggregate's containers plus the transient fields
// needed to classify branches and measure reorder distance. It exists
// for the lifetime of a work-group's execution on one worker;
// BeginGroup lazily allocates its containers on first use and clears
// them on every subsequent call, so the same State is reused across
// work-groups without reallocating.
type State struct {
	ComputeOps map[string]uint64

	// MemoryOps holds addresses observed via non-Private loads, stores
	// and atomics, in the order this worker observed them.
	MemoryOps []uint64

	// BranchOps maps a source line to the taken/not-taken sequence
	// observed at that line, in execution order.
	BranchOps map[uint32][]bool

	InstructionsBetweenBarriers   []uint64
	InstructionsPerWorkitem       []uint64
	InstructionsBetweenLoadOrStore []uint64

	InstructionWidth map[uint32]uint64

	LoadInstructionLabels  map[string]uint64
	StoreInstructionLabels map[string]uint64

	ThreadsInvoked        uint64
	BarriersHit           uint64
	GlobalMemAccesses     uint64
	LocalMemAccesses      uint64
	ConstantMemAccesses   uint64

	// transient, cleared at BeginGroup
	opsBetweenLoadOrStore       uint64
	workitemInstructionCount    uint64
	instructionCount            uint64
	previousInstructionIsBranch bool
	target1                     string
	target2                     string
	branchLoc                   uint32
}

// New returns an unallocated State; BeginGroup must be called before
// any event method is used.
func New() *State {
	return &State{}
}

func (s *State) allocated() bool {
	return s.ComputeOps != nil
}

func (s *State) lazyAllocate() {
	if s.allocated() {
		return
	}
	s.ComputeOps = make(map[string]uint64)
	s.BranchOps = make(map[uint32][]bool)
	s.InstructionWidth = make(map[uint32]uint64)
	s.LoadInstructionLabels = make(map[string]uint64)
	s.StoreInstructionLabels = make(map[string]uint64)
}

// BeginGroup lazily allocates the container fields on first use and
// clears every container and scalar for the new work-group.
func (s *State) BeginGroup() {
	s.lazyAllocate()

	s.MemoryOps = s.MemoryOps[:0]
	for k := range s.ComputeOps {
		delete(s.ComputeOps, k)
	}
	for k := range s.BranchOps {
		delete(s.BranchOps, k)
	}
	s.InstructionsBetweenBarriers = s.InstructionsBetweenBarriers[:0]
	s.InstructionsPerWorkitem = s.InstructionsPerWorkitem[:0]
	s.InstructionsBetweenLoadOrStore = s.InstructionsBetweenLoadOrStore[:0]
	for k := range s.InstructionWidth {
		delete(s.InstructionWidth, k)
	}
	for k := range s.LoadInstructionLabels {
		delete(s.LoadInstructionLabels, k)
	}
	for k := range s.StoreInstructionLabels {
		delete(s.StoreInstructionLabels, k)
	}

	s.ThreadsInvoked = 0
	s.BarriersHit = 0
	s.GlobalMemAccesses = 0
	s.LocalMemAccesses = 0
	s.ConstantMemAccesses = 0

	s.opsBetweenLoadOrStore = 0
	s.workitemInstructionCount = 0
	s.instructionCount = 0
	s.previousInstructionIsBranch = false
	s.target1 = ""
	s.target2 = ""
	s.branchLoc = 0
}

// Reset clears the same containers BeginGroup does, without touching
// the allocation. Called by aggregate.Aggregate.Merge once a worker's
// contribution has been folded into the invocation-wide aggregate, so
// the State is immediately ready for the next work-group.
func (s *State) Reset() {
	s.BeginGroup()
}

// WorkItemBegin implements the workItemBegin lifecycle hook.
func (s *State) WorkItemBegin() {
	s.ThreadsInvoked++
	s.instructionCount = 0
	s.workitemInstructionCount = 0
	s.opsBetweenLoadOrStore = 0
}

// WorkItemBarrier implements workItemBarrier.
func (s *State) WorkItemBarrier() {
	s.BarriersHit++
	s.InstructionsBetweenBarriers = append(s.InstructionsBetweenBarriers, s.instructionCount)
	s.instructionCount = 0
}

// WorkItemClearBarrier implements workItemClearBarrier.
func (s *State) WorkItemClearBarrier() {
	s.instructionCount = 0
}

// WorkItemComplete implements workItemComplete.
func (s *State) WorkItemComplete() {
	s.InstructionsBetweenBarriers = append(s.InstructionsBetweenBarriers, s.instructionCount)
	s.InstructionsPerWorkitem = append(s.InstructionsPerWorkitem, s.workitemInstructionCount)
}

// raiseInterrupt signals the current process with SIGINT: the host
// contract has been violated in a way that cannot be recovered from.
func raiseInterrupt() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(os.Interrupt)
}

// InstructionExecuted implements the per-instruction handling: tally
// the compute op, classify any load/store by address space, track
// reorder distance, classify a pending branch outcome, record a new
// pending branch, and update the instruction and SIMD-width counters.
func (s *State) InstructionExecuted(inst hostapi.Instruction) error {
	// 1. compute-op tally
	s.ComputeOps[inst.Opcode()]++

	opcode := inst.Opcode()
	isLoad := opcode == "load"
	isStore := opcode == "store"

	// 2. classify Load/Store by pointer address space
	if isLoad || isStore {
		switch inst.PointerAddressSpace() {
		case hostapi.Local:
			s.LocalMemAccesses++
		case hostapi.Global:
			s.GlobalMemAccesses++
		case hostapi.Constant:
			s.ConstantMemAccesses++
		case hostapi.Private:
			// silently dropped, not an error
		}
	}

	// 3. reorder distance + label bookkeeping
	s.opsBetweenLoadOrStore++
	if isLoad {
		s.LoadInstructionLabels[inst.PointerOperandName()]++
		s.InstructionsBetweenLoadOrStore = append(s.InstructionsBetweenLoadOrStore, s.opsBetweenLoadOrStore)
		s.opsBetweenLoadOrStore = 0
	} else if isStore {
		s.StoreInstructionLabels[inst.PointerOperandName()]++
		s.InstructionsBetweenLoadOrStore = append(s.InstructionsBetweenLoadOrStore, s.opsBetweenLoadOrStore)
		s.opsBetweenLoadOrStore = 0
	}

	// 4. classify the pending branch outcome
	if s.previousInstructionIsBranch {
		block := inst.ParentBlockLabel()
		switch block {
		case s.target1:
			s.BranchOps[s.branchLoc] = append(s.BranchOps[s.branchLoc], true)
		case s.target2:
			s.BranchOps[s.branchLoc] = append(s.BranchOps[s.branchLoc], false)
		default:
			err := &BranchMismatchError{Observed: block, Target1: s.target1, Target2: s.target2}
			log.Printf("%v", err)
			raiseInterrupt()
			s.previousInstructionIsBranch = false
			return err
		}
		s.previousInstructionIsBranch = false
	}

	// 5. record a new pending conditional branch
	if inst.IsConditionalBranch() {
		s.target1 = inst.OperandLabel(1)
		s.target2 = inst.OperandLabel(2)
		s.branchLoc = inst.Line()
		s.previousInstructionIsBranch = true
	}

	// 6. instruction counters
	s.instructionCount++
	s.workitemInstructionCount++

	// 7. SIMD width histogram
	s.InstructionWidth[inst.ResultWidth()]++

	return nil
}

// classifyMemoryOp appends address to MemoryOps unless region is
// Private-addressed. Non-atomic loads and stores use this directly.
// classifyAtomicMemoryOp filters on the numeric value 0 instead of the
// Private constant directly: since Private is defined as iota 0, the
// two checks agree as long as no host encodes Private as anything
// other than 0. Kept deliberately literal rather than normalized to
// hostapi.Private so a host that violates that assumption is easy to
// spot by diffing the two filters.
func (s *State) classifyMemoryOp(region hostapi.MemoryRegion, address uint64) {
	if region.AddressSpace() != hostapi.Private {
		s.MemoryOps = append(s.MemoryOps, address)
	}
}

func (s *State) classifyAtomicMemoryOp(region hostapi.MemoryRegion, address uint64) {
	if int(region.AddressSpace()) != 0 {
		s.MemoryOps = append(s.MemoryOps, address)
	}
}

// MemoryLoad implements memoryLoad.
func (s *State) MemoryLoad(region hostapi.MemoryRegion, address uint64) {
	s.classifyMemoryOp(region, address)
}

// MemoryStore implements memoryStore.
func (s *State) MemoryStore(region hostapi.MemoryRegion, address uint64) {
	s.classifyMemoryOp(region, address)
}

// MemoryAtomicLoad implements memoryAtomicLoad.
func (s *State) MemoryAtomicLoad(region hostapi.MemoryRegion, address uint64) {
	s.classifyAtomicMemoryOp(region, address)
}

// MemoryAtomicStore implements memoryAtomicStore.
func (s *State) MemoryAtomicStore(region hostapi.MemoryRegion, address uint64) {
	s.classifyAtomicMemoryOp(region, address)
}
