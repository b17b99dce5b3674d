// Package walltime tracks the wall-clock span of each kernel
// invocation, from KernelBegin to KernelEnd — the host's instrumented
// run of the kernel, not simulated device time — and writes a summary
// once the process is done recording.
package walltime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/tebeka/atexit"

	"github.com/oclgrind/aiwc/internal/seqfile"
)

// KernelTiming is one kernel invocation's recorded wall-clock duration.
type KernelTiming struct {
	Kernel   string  `json:"kernel"`
	Seconds  float64 `json:"seconds"`
	Sequence int     `json:"sequence"`
}

// Clock records the wall-clock span of kernel invocations by name and
// accumulates a summary to write out at Finalize. Safe for concurrent
// use across multiple in-flight kernels, though a host normally runs
// one kernel invocation at a time.
type Clock struct {
	mu        sync.Mutex
	starts    map[string]time.Time
	timings   []KernelTiming
	outputDir string
	once      sync.Once
}

// New returns a Clock that writes its summary under outputDir when
// Finalize is called; Finalize is also registered with atexit, so a
// process exiting through atexit.Exit writes it too.
func New(outputDir string) *Clock {
	c := &Clock{
		starts:    make(map[string]time.Time),
		outputDir: outputDir,
	}
	atexit.Register(c.Finalize)
	return c
}

// Start marks the beginning of a kernel invocation. Calling Start twice
// for the same kernel name before the matching Stop is a caller error;
// the second Start silently overwrites the first, matching how a host
// would only ever have one invocation of a given kernel name in flight.
func (c *Clock) Start(kernelName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts[kernelName] = time.Now()
}

// Stop returns the elapsed time since the matching Start and records it
// for the eventual summary. Returns 0 if Start was never called for
// kernelName.
func (c *Clock) Stop(kernelName string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, ok := c.starts[kernelName]
	if !ok {
		return 0
	}
	delete(c.starts, kernelName)

	elapsed := time.Since(start).Seconds()
	c.timings = append(c.timings, KernelTiming{
		Kernel:   kernelName,
		Seconds:  elapsed,
		Sequence: len(c.timings),
	})
	return elapsed
}

// Finalize writes the accumulated per-kernel timings as JSON. Safe to
// call more than once; only the first call writes anything.
func (c *Clock) Finalize() {
	c.once.Do(c.finalize)
}

func (c *Clock) finalize() {
	c.mu.Lock()
	timings := append([]KernelTiming(nil), c.timings...)
	c.mu.Unlock()

	if len(timings) == 0 {
		return
	}

	path, f, err := seqfile.Create(c.outputDir, "aiwc_walltime_", ".json")
	if err != nil {
		log.Printf("aiwc: could not write walltime summary: %v", err)
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(timings); err != nil {
		log.Printf("aiwc: could not write walltime summary: %v", err)
		return
	}
	log.Printf("aiwc: walltime summary written to %s", path)
}
