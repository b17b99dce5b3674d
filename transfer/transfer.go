// Package transfer implements the Host-Transfer Tracker: the
// plugin-lifetime record of host<->device copy events, and the CSV
// artifact emitted once the tracker is finalized.
package transfer

import (
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/tebeka/atexit"

	"github.com/oclgrind/aiwc/internal/seqfile"
)

// Log holds the two ordered lists of kernel-name attributions for
// host-to-device and device-to-host memory copies. It lives from
// plugin construction to plugin teardown — in Go terms, from New to
// Finalize, which New also registers with github.com/tebeka/atexit so
// it runs when the process exits through atexit.Exit.
type Log struct {
	mu sync.Mutex

	hostToDeviceCopy []string
	deviceToHostCopy []string

	lastKernelName                             string
	numberOfHostToDeviceCopiesBeforeKernelNamed int

	outputDir string

	once sync.Once
}

// New creates a Log and registers its Finalize with atexit. outputDir
// is where the transfers CSV is written; an empty string means the
// current working directory.
func New(outputDir string) *Log {
	l := &Log{outputDir: outputDir}
	atexit.Register(l.Finalize)
	return l
}

// HostMemoryStore records a host-to-device copy, tagging it with the
// last-named kernel and bumping the pending-relabel counter.
func (l *Log) HostMemoryStore() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hostToDeviceCopy = append(l.hostToDeviceCopy, l.lastKernelName)
	l.numberOfHostToDeviceCopiesBeforeKernelNamed++
}

// HostMemoryLoad records a device-to-host copy, tagged with the
// last-named kernel. Never retroactively relabeled.
func (l *Log) HostMemoryLoad() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deviceToHostCopy = append(l.deviceToHostCopy, l.lastKernelName)
}

// KernelBegin retroactively relabels the most recent N pending
// host-to-device entries to kernelName, where N is the running counter
// zeroed here after use.
func (l *Log) KernelBegin(kernelName string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastKernelName = kernelName

	n := l.numberOfHostToDeviceCopiesBeforeKernelNamed
	end := len(l.hostToDeviceCopy) - 1
	for i := 0; i < n; i++ {
		l.hostToDeviceCopy[end-i] = kernelName
	}
	l.numberOfHostToDeviceCopiesBeforeKernelNamed = 0
}

// KernelEnd marks the end of the kernel invocation named kernelName.
// All attribution for the Log happens in KernelBegin and the
// HostMemory* calls, so KernelEnd has nothing to record.
func (l *Log) KernelEnd(kernelName string) {
}

// counts returns, for a list of kernel-name attributions, the count of
// entries per distinct kernel name, in first-seen order.
func counts(names []string) (order []string, byKernel map[string]int) {
	byKernel = make(map[string]int)
	for _, n := range names {
		if _, ok := byKernel[n]; !ok {
			order = append(order, n)
		}
		byKernel[n]++
	}
	return order, byKernel
}

// Finalize computes per-kernel transfer counts, logs them, and writes
// the aiwc_memory_transfers_<N>.csv artifact. Safe to call more than
// once (only the first call does anything); atexit.Register also
// arranges for it to run if the process exits through atexit.Exit.
// A process that exits any other way runs it only if it was called
// explicitly.
func (l *Log) Finalize() {
	l.once.Do(l.finalize)
}

func (l *Log) finalize() {
	l.mu.Lock()
	h2dOrder, h2d := counts(l.hostToDeviceCopy)
	d2hOrder, d2h := counts(l.deviceToHostCopy)
	l.mu.Unlock()

	log.Printf("aiwc: total host to device transfers (#) for kernel:")
	for _, k := range h2dOrder {
		log.Printf("\t%s: %d", k, h2d[k])
	}
	log.Printf("aiwc: total device to host transfers (#) for kernel:")
	for _, k := range d2hOrder {
		log.Printf("\t%s: %d", k, d2h[k])
	}

	path, err := l.write(h2dOrder, h2d, d2hOrder, d2h)
	if err != nil {
		log.Fatalf("aiwc: could not write memory transfers csv: %v", err)
	}
	log.Printf("aiwc: memory transfer statistics written to %s", path)
}

func (l *Log) write(h2dOrder []string, h2d map[string]int, d2hOrder []string, d2h map[string]int) (string, error) {
	path, f, err := seqfile.Create(l.outputDir, "aiwc_memory_transfers_", ".csv")
	if err != nil {
		return "", fmt.Errorf("aiwc: create memory transfers csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"metric", "kernel", "count"}); err != nil {
		return "", err
	}
	for _, k := range h2dOrder {
		if err := w.Write([]string{"transfer: host to device", k, strconv.Itoa(h2d[k])}); err != nil {
			return "", err
		}
	}
	for _, k := range d2hOrder {
		if err := w.Write([]string{"transfer: device to host", k, strconv.Itoa(d2h[k])}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}
