// Package aggregate implements the Group Merger: it folds a worker's
// per-work-group State into kernel-invocation-wide totals under a
// single mutex, held only for the duration of the merge.
package aggregate

import (
	"sync"

	"github.com/oclgrind/aiwc/worker"
)

// Aggregate holds kernel-invocation-scoped totals, alive from
// kernelBegin to kernelEnd.
type Aggregate struct {
	mu sync.Mutex

	ComputeOps map[string]uint64
	MemoryOps  []uint64
	BranchOps  map[uint32][]bool

	InstructionsBetweenBarriers   []uint64
	InstructionsPerWorkitem       []uint64
	InstructionsBetweenLoadOrStore []uint64

	InstructionWidth map[uint32]uint64

	LoadInstructionLabels  map[string]uint64
	StoreInstructionLabels map[string]uint64

	ThreadsInvoked      uint64
	BarriersHit         uint64
	GlobalMemAccesses   uint64
	LocalMemAccesses    uint64
	ConstantMemAccesses uint64
}

// New returns an empty Aggregate, ready to receive merges.
func New() *Aggregate {
	a := &Aggregate{}
	a.reset()
	return a
}

func (a *Aggregate) reset() {
	a.ComputeOps = make(map[string]uint64)
	a.MemoryOps = nil
	a.BranchOps = make(map[uint32][]bool)
	a.InstructionsBetweenBarriers = nil
	a.InstructionsPerWorkitem = nil
	a.InstructionsBetweenLoadOrStore = nil
	a.InstructionWidth = make(map[uint32]uint64)
	a.LoadInstructionLabels = make(map[string]uint64)
	a.StoreInstructionLabels = make(map[string]uint64)
	a.ThreadsInvoked = 0
	a.BarriersHit = 0
	a.GlobalMemAccesses = 0
	a.LocalMemAccesses = 0
	a.ConstantMemAccesses = 0
}

// Reset clears the aggregate back to its zero state, readying it for
// the next kernel invocation.
func (a *Aggregate) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

// Merge folds ws into the invocation aggregate under a.mu, then resets
// ws so it is immediately ready for its worker's next work-group. This
// is the only lock taken per work-group: per-instruction and
// per-memory hooks never touch it.
func (a *Aggregate) Merge(ws *worker.State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for opcode, count := range ws.ComputeOps {
		a.ComputeOps[opcode] += count
	}

	a.MemoryOps = append(a.MemoryOps, ws.MemoryOps...)

	for line, taken := range ws.BranchOps {
		a.BranchOps[line] = append(a.BranchOps[line], taken...)
	}

	a.ThreadsInvoked += ws.ThreadsInvoked
	a.BarriersHit += ws.BarriersHit
	a.GlobalMemAccesses += ws.GlobalMemAccesses
	a.LocalMemAccesses += ws.LocalMemAccesses
	a.ConstantMemAccesses += ws.ConstantMemAccesses

	a.InstructionsBetweenBarriers = append(a.InstructionsBetweenBarriers, ws.InstructionsBetweenBarriers...)
	a.InstructionsPerWorkitem = append(a.InstructionsPerWorkitem, ws.InstructionsPerWorkitem...)
	a.InstructionsBetweenLoadOrStore = append(a.InstructionsBetweenLoadOrStore, ws.InstructionsBetweenLoadOrStore...)

	for label, count := range ws.LoadInstructionLabels {
		a.LoadInstructionLabels[label] += count
	}
	for label, count := range ws.StoreInstructionLabels {
		a.StoreInstructionLabels[label] += count
	}

	for width, count := range ws.InstructionWidth {
		a.InstructionWidth[width] += count
	}

	ws.Reset()
}

// Snapshot returns a deep copy of the aggregate's containers so
// metrics.Compute can operate without holding the lock while it
// derives statistics. Called at kernelEnd, after all work-groups for
// the invocation have completed, so there are no concurrent writers by
// the time this runs.
func (a *Aggregate) Snapshot() *Aggregate {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &Aggregate{
		ComputeOps:                     make(map[string]uint64, len(a.ComputeOps)),
		MemoryOps:                      append([]uint64(nil), a.MemoryOps...),
		BranchOps:                      make(map[uint32][]bool, len(a.BranchOps)),
		InstructionsBetweenBarriers:    append([]uint64(nil), a.InstructionsBetweenBarriers...),
		InstructionsPerWorkitem:        append([]uint64(nil), a.InstructionsPerWorkitem...),
		InstructionsBetweenLoadOrStore: append([]uint64(nil), a.InstructionsBetweenLoadOrStore...),
		InstructionWidth:               make(map[uint32]uint64, len(a.InstructionWidth)),
		LoadInstructionLabels:          make(map[string]uint64, len(a.LoadInstructionLabels)),
		StoreInstructionLabels:         make(map[string]uint64, len(a.StoreInstructionLabels)),
		ThreadsInvoked:                 a.ThreadsInvoked,
		BarriersHit:                    a.BarriersHit,
		GlobalMemAccesses:              a.GlobalMemAccesses,
		LocalMemAccesses:               a.LocalMemAccesses,
		ConstantMemAccesses:            a.ConstantMemAccesses,
	}
	for k, v := range a.ComputeOps {
		s.ComputeOps[k] = v
	}
	for k, v := range a.BranchOps {
		s.BranchOps[k] = append([]bool(nil), v...)
	}
	for k, v := range a.InstructionWidth {
		s.InstructionWidth[k] = v
	}
	for k, v := range a.LoadInstructionLabels {
		s.LoadInstructionLabels[k] = v
	}
	for k, v := range a.StoreInstructionLabels {
		s.StoreInstructionLabels[k] = v
	}
	return s
}
