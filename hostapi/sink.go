package hostapi

// Sink is the full set of callbacks the host interpreter fires as a
// kernel executes. A host holds one Sink (in practice an *aiwc.Plugin)
// and calls these methods at the documented trigger points; it must not
// call InstructionExecuted, MemoryLoad, MemoryStore,
// MemoryAtomicLoad or MemoryAtomicStore outside a WorkItemBegin /
// WorkItemComplete pair for the given WorkerID.
type Sink interface {
	KernelBegin(kernelName string)
	KernelEnd(kernelName string)

	WorkGroupBegin(worker WorkerID, groupID string)
	WorkGroupComplete(worker WorkerID, groupID string)

	WorkItemBegin(worker WorkerID, itemID string)
	WorkItemComplete(worker WorkerID, itemID string)
	WorkItemBarrier(worker WorkerID, itemID string)
	WorkItemClearBarrier(worker WorkerID, itemID string)

	InstructionExecuted(worker WorkerID, inst Instruction)

	MemoryLoad(worker WorkerID, region MemoryRegion, address uint64, size uint32)
	MemoryStore(worker WorkerID, region MemoryRegion, address uint64, size uint32)
	MemoryAtomicLoad(worker WorkerID, region MemoryRegion, op AtomicOp, address uint64, size uint32)
	MemoryAtomicStore(worker WorkerID, region MemoryRegion, op AtomicOp, address uint64, size uint32)

	HostMemoryLoad(region MemoryRegion, address uint64, size uint32)
	HostMemoryStore(region MemoryRegion, address uint64, size uint32)
}

// WorkerID identifies the OS-thread-equivalent executing a work-group.
// The host is the only party that can tell two concurrently-executing
// work-groups apart; this module never invents worker identity, it only
// keys per-worker state off whatever the host supplies here.
type WorkerID string
