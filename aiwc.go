// Package aiwc wires the Worker-Local Accumulator, Group Merger,
// Host-Transfer Tracker and Report Builder into a single hostapi.Sink a
// host interpreter can drive. This is the top-level entry point of the
// module; everything else lives in leaf packages this file composes.
package aiwc

import (
	"flag"
	"log"
	"os"
	"sync"

	"github.com/oclgrind/aiwc/aggregate"
	"github.com/oclgrind/aiwc/hostapi"
	"github.com/oclgrind/aiwc/metrics"
	"github.com/oclgrind/aiwc/report"
	"github.com/oclgrind/aiwc/transfer"
	"github.com/oclgrind/aiwc/walltime"
	"github.com/oclgrind/aiwc/worker"
)

// workerTable maps hostapi.WorkerID to *worker.State without a single
// shared mutex. It is read on every InstructionExecuted/MemoryLoad/
// MemoryStore call from however many workers are executing
// concurrently; a plain Mutex-guarded map here would serialize all of
// them on every instruction. sync.Map's internal read-mostly path is
// lock-free for the common case of looking up a worker that already
// has an entry, which is every call after the first per worker.
type workerTable struct {
	m sync.Map
}

func (t *workerTable) get(id hostapi.WorkerID) (*worker.State, bool) {
	v, ok := t.m.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*worker.State), true
}

func (t *workerTable) getOrCreate(id hostapi.WorkerID) *worker.State {
	if ws, ok := t.get(id); ok {
		return ws
	}
	actual, _ := t.m.LoadOrStore(id, worker.New())
	return actual.(*worker.State)
}

// EnableFlag is the plugin activation switch: the host interpreter's
// --aiwc flag. The core registers its own flags rather than requiring
// the host to wire them by hand.
var EnableFlag = flag.Bool("aiwc", false,
	"enable Architecture-Independent Workload Characterization")

// OutputDirFlag controls where per-kernel and transfer CSVs land.
var OutputDirFlag = flag.String("aiwc-output-dir", ".",
	"directory to write aiwc_*.csv artifacts to")

// Plugin is the concrete hostapi.Sink implementation: it owns the
// invocation aggregate, the host-transfer log, and the map of
// per-worker state.
type Plugin struct {
	workers workerTable

	agg      *aggregate.Aggregate
	transfer *transfer.Log
	clock    *walltime.Clock

	outputDir  string
	kernelName string
}

var _ hostapi.Sink = (*Plugin)(nil)

// New constructs a Plugin. outputDir overrides OutputDirFlag when
// non-empty; pass "" to use OutputDirFlag's current value.
func New(outputDir string) *Plugin {
	if outputDir == "" {
		outputDir = *OutputDirFlag
	}
	return &Plugin{
		agg:       aggregate.New(),
		transfer:  transfer.New(outputDir),
		clock:     walltime.New(outputDir),
		outputDir: outputDir,
	}
}

// stateFor resolves a worker's accumulator. Called from WorkGroupBegin
// on the cold path (one call per work-group, where creating the entry
// is fine) and from the per-instruction/per-memory hot path, where it
// must never block on another worker's activity: agg.Merge (invoked
// from WorkGroupComplete) holds its own lock only for the duration of
// one merge, and stateFor must stay independent of that lock entirely.
func (p *Plugin) stateFor(id hostapi.WorkerID) *worker.State {
	return p.workers.getOrCreate(id)
}

// KernelBegin implements hostapi.Sink.
func (p *Plugin) KernelBegin(kernelName string) {
	p.kernelName = kernelName
	p.transfer.KernelBegin(kernelName)
	p.clock.Start(kernelName)
	p.agg.Reset()
}

// KernelEnd implements hostapi.Sink. It derives the full metrics.Report
// from the invocation aggregate, prints the Markdown report to stdout,
// writes the per-kernel CSV, and then clears the aggregate so the
// plugin is ready for the next invocation.
func (p *Plugin) KernelEnd(kernelName string) {
	elapsed := p.clock.Stop(kernelName)
	log.Printf("aiwc: kernel %s instrumented in %.3fs of wall time", kernelName, elapsed)

	snapshot := p.agg.Snapshot()
	m := metrics.Compute(snapshot)

	report.WriteStdout(os.Stdout, kernelName, m)

	path, err := report.WriteCSV(p.outputDir, kernelName, m)
	if err != nil {
		// the report is the tool's one output artifact; it cannot be
		// silently dropped.
		log.Fatalf("aiwc: %v", err)
	}
	log.Printf("aiwc: workload characterisation written to file: %s", path)

	p.agg.Reset()
}

// WorkGroupBegin implements hostapi.Sink.
func (p *Plugin) WorkGroupBegin(w hostapi.WorkerID, _ string) {
	p.stateFor(w).BeginGroup()
}

// WorkGroupComplete implements hostapi.Sink.
func (p *Plugin) WorkGroupComplete(w hostapi.WorkerID, _ string) {
	p.agg.Merge(p.stateFor(w))
}

// WorkItemBegin implements hostapi.Sink.
func (p *Plugin) WorkItemBegin(w hostapi.WorkerID, _ string) {
	p.stateFor(w).WorkItemBegin()
}

// WorkItemComplete implements hostapi.Sink.
func (p *Plugin) WorkItemComplete(w hostapi.WorkerID, _ string) {
	p.stateFor(w).WorkItemComplete()
}

// WorkItemBarrier implements hostapi.Sink.
func (p *Plugin) WorkItemBarrier(w hostapi.WorkerID, _ string) {
	p.stateFor(w).WorkItemBarrier()
}

// WorkItemClearBarrier implements hostapi.Sink.
func (p *Plugin) WorkItemClearBarrier(w hostapi.WorkerID, _ string) {
	p.stateFor(w).WorkItemClearBarrier()
}

// InstructionExecuted implements hostapi.Sink. A branch classification
// mismatch is a host contract violation, already logged and
// SIGINT-raised inside worker.State, so the returned error is ignored
// here.
func (p *Plugin) InstructionExecuted(w hostapi.WorkerID, inst hostapi.Instruction) {
	_ = p.stateFor(w).InstructionExecuted(inst)
}

// MemoryLoad implements hostapi.Sink.
func (p *Plugin) MemoryLoad(w hostapi.WorkerID, region hostapi.MemoryRegion, address uint64, _ uint32) {
	p.stateFor(w).MemoryLoad(region, address)
}

// MemoryStore implements hostapi.Sink.
func (p *Plugin) MemoryStore(w hostapi.WorkerID, region hostapi.MemoryRegion, address uint64, _ uint32) {
	p.stateFor(w).MemoryStore(region, address)
}

// MemoryAtomicLoad implements hostapi.Sink.
func (p *Plugin) MemoryAtomicLoad(w hostapi.WorkerID, region hostapi.MemoryRegion, _ hostapi.AtomicOp, address uint64, _ uint32) {
	p.stateFor(w).MemoryAtomicLoad(region, address)
}

// MemoryAtomicStore implements hostapi.Sink.
func (p *Plugin) MemoryAtomicStore(w hostapi.WorkerID, region hostapi.MemoryRegion, _ hostapi.AtomicOp, address uint64, _ uint32) {
	p.stateFor(w).MemoryAtomicStore(region, address)
}

// HostMemoryLoad implements hostapi.Sink.
func (p *Plugin) HostMemoryLoad(_ hostapi.MemoryRegion, _ uint64, _ uint32) {
	p.transfer.HostMemoryLoad()
}

// HostMemoryStore implements hostapi.Sink.
func (p *Plugin) HostMemoryStore(_ hostapi.MemoryRegion, _ uint64, _ uint32) {
	p.transfer.HostMemoryStore()
}

// Close finalizes the host-transfer log and the wall-time summary.
// Idempotent; safe to call even if the process later exits through
// atexit.Exit, which calls the same finalizers.
func (p *Plugin) Close() {
	p.transfer.Finalize()
	p.clock.Finalize()
}
