// Package metrics derives every scalar statistic, entropy, coverage
// threshold and histogram from a snapshot of an aggregate.Aggregate.
// Compute is a pure function: no I/O, which makes it easy to exercise
// directly in tests.
package metrics

import (
	"math"
	"sort"

	"github.com/google/btree"
	pkgmath "github.com/pkg/math"
	"gonum.org/v1/gonum/stat"

	"github.com/oclgrind/aiwc/aggregate"
)

// BranchHistoryWindow is the Yokota/linear branch-entropy window
// length m.
const BranchHistoryWindow = 16

// OpcodeCount is one row of the descending-by-count compute-op table.
type OpcodeCount struct {
	Opcode string
	Count  uint64
}

// BranchCount is one row of the descending-by-length branch table.
type BranchCount struct {
	Line   uint32
	Length int
}

// Report is every derived statistic for one kernel invocation, exactly
// the union of what the stdout and CSV renderers need.
type Report struct {
	// Degenerate is true when InstructionWidth was empty at kernelEnd:
	// a host fired kernelEnd having executed nothing. The data
	// parallelism, memory and control fields below are then left at
	// their zero values; the compute, utilization, thread-level and
	// work-distribution fields are still derived from the aggregate.
	Degenerate bool

	// Compute
	SortedOpcodes          []OpcodeCount
	TotalInstructionCount  uint64
	UniqueOpcodesFor90Pct  int
	Opcodes90Pct           []string

	// Utilization
	FreedomToReorder float64
	ResourcePressure float64

	// Thread-level parallelism
	ThreadsInvoked         uint64
	Granularity            float64
	BarriersHit            uint64
	InstToBarrierMin       uint64
	InstToBarrierMax       uint64
	InstToBarrierMedian    uint64
	BarriersPerInstruction float64

	// Work distribution
	InstPerWorkitemMin    uint64
	InstPerWorkitemMax    uint64
	InstPerWorkitemMedian uint64

	// Data parallelism
	SimdMin                uint32
	SimdMax                uint32
	SimdMean               float64
	SimdStdev              float64
	SimdSum                uint64
	InstructionsPerOperand float64

	// Memory footprint
	TotalMemoryFootprint int
	MemoryAccessCount    uint64
	Footprint90Pct       int

	// Memory entropy
	GlobalEntropy float64
	// LocalEntropy[i] is the entropy with i+1 LSBs skipped, i in 0..9.
	LocalEntropy [10]float64

	// Memory diversity
	GlobalMemAccesses     uint64
	LocalMemAccesses      uint64
	ConstantMemAccesses   uint64
	RelativeLocalPct      float64
	RelativeConstantPct   float64

	// Control
	SortedBranches         []BranchCount
	TotalBranchCount       uint64
	UniqueBranchesFor90Pct int

	// Branch entropy
	YokotaEntropy            float64
	YokotaEntropyPerWorkload float64
	AverageLinearEntropy     float64
}

type opcodeItem OpcodeCount

func (o opcodeItem) Less(than btree.Item) bool {
	o2 := than.(opcodeItem)
	if o.Count != o2.Count {
		return o.Count > o2.Count
	}
	return o.Opcode < o2.Opcode
}

type branchItem BranchCount

func (b branchItem) Less(than btree.Item) bool {
	b2 := than.(branchItem)
	if b.Length != b2.Length {
		return b.Length > b2.Length
	}
	return b.Line < b2.Line
}

// ceilFrac90 is ceil(0.9 * total), the "significant count" threshold
// used by the three 90%-coverage computations (opcodes, memory
// footprint, branches).
func ceilFrac90(total uint64) uint64 {
	return uint64(math.Ceil(0.9 * float64(total)))
}

func medianUint64(sorted []uint64) uint64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Compute derives a Report from an aggregate snapshot. Call it once per
// kernelEnd, after aggregate.Aggregate.Snapshot has copied the
// invocation's data out from under the aggregate's mutex.
func Compute(a *aggregate.Aggregate) Report {
	var r Report

	// ---- Compute ----
	tree := btree.New(32)
	for opcode, count := range a.ComputeOps {
		tree.ReplaceOrInsert(opcodeItem{Opcode: opcode, Count: count})
	}
	r.SortedOpcodes = make([]OpcodeCount, 0, tree.Len())
	tree.Ascend(func(it btree.Item) bool {
		r.SortedOpcodes = append(r.SortedOpcodes, OpcodeCount(it.(opcodeItem)))
		return true
	})

	var total uint64
	for _, oc := range r.SortedOpcodes {
		total += oc.Count
	}
	r.TotalInstructionCount = total

	if total > 0 {
		threshold := ceilFrac90(total)
		var running uint64
		for _, oc := range r.SortedOpcodes {
			running += oc.Count
			r.UniqueOpcodesFor90Pct++
			r.Opcodes90Pct = append(r.Opcodes90Pct, oc.Opcode)
			if running >= threshold {
				break
			}
		}
	}

	// ---- Utilization ----
	if len(a.InstructionsBetweenLoadOrStore) > 0 {
		xs := make([]float64, len(a.InstructionsBetweenLoadOrStore))
		for i, v := range a.InstructionsBetweenLoadOrStore {
			xs[i] = float64(v)
		}
		r.FreedomToReorder = stat.Mean(xs, nil)
	}

	var labelRefs uint64
	for _, c := range a.LoadInstructionLabels {
		labelRefs += c
	}
	for _, c := range a.StoreInstructionLabels {
		labelRefs += c
	}
	if a.ThreadsInvoked > 0 {
		r.ResourcePressure = float64(labelRefs) / float64(a.ThreadsInvoked)
	}

	// ---- Thread-level parallelism ----
	r.ThreadsInvoked = a.ThreadsInvoked
	r.BarriersHit = a.BarriersHit
	if a.ThreadsInvoked > 0 {
		r.Granularity = 1.0 / float64(a.ThreadsInvoked)
	}

	itb := append([]uint64(nil), a.InstructionsBetweenBarriers...)
	sort.Slice(itb, func(i, j int) bool { return itb[i] < itb[j] })
	if len(itb) > 0 {
		minv, maxv := itb[0], itb[0]
		for _, v := range itb[1:] {
			minv = uint64(pkgmath.MinInt(int(minv), int(v)))
			maxv = uint64(pkgmath.MaxInt(int(maxv), int(v)))
		}
		r.InstToBarrierMin = minv
		r.InstToBarrierMax = maxv
		r.InstToBarrierMedian = medianUint64(itb)
	}
	if total > 0 {
		r.BarriersPerInstruction = float64(a.BarriersHit+a.ThreadsInvoked) / float64(total)
	}

	// ---- Work distribution ----
	ipt := append([]uint64(nil), a.InstructionsPerWorkitem...)
	sort.Slice(ipt, func(i, j int) bool { return ipt[i] < ipt[j] })
	if len(ipt) > 0 {
		minv, maxv := ipt[0], ipt[0]
		for _, v := range ipt[1:] {
			minv = uint64(pkgmath.MinInt(int(minv), int(v)))
			maxv = uint64(pkgmath.MaxInt(int(maxv), int(v)))
		}
		r.InstPerWorkitemMin = minv
		r.InstPerWorkitemMax = maxv
		r.InstPerWorkitemMedian = medianUint64(ipt)
	}

	// ---- Data parallelism ----
	if len(a.InstructionWidth) == 0 {
		r.Degenerate = true
		return r
	}
	{
		widths := make([]float64, 0, len(a.InstructionWidth))
		weights := make([]float64, 0, len(a.InstructionWidth))
		var simdMin, simdMax uint32
		var simdSum, simdNum uint64
		first := true
		for width, count := range a.InstructionWidth {
			if first || width < simdMin {
				simdMin = width
			}
			if first || width > simdMax {
				simdMax = width
			}
			first = false
			simdSum += uint64(width) * count
			simdNum += count
			widths = append(widths, float64(width))
			weights = append(weights, float64(count))
		}
		r.SimdMin = simdMin
		r.SimdMax = simdMax
		r.SimdSum = simdSum

		mean, variance := stat.PopMeanVariance(widths, weights)
		r.SimdMean = mean
		r.SimdStdev = math.Sqrt(variance)
		if simdSum > 0 {
			r.InstructionsPerOperand = float64(total) / float64(simdSum)
		}
	}

	// ---- Memory footprint & entropy ----
	histograms := make([]map[uint64]uint64, 11)
	for k := range histograms {
		histograms[k] = make(map[uint64]uint64)
	}
	for _, addr := range a.MemoryOps {
		for shift := 0; shift <= 10; shift++ {
			histograms[shift][addr>>uint(shift)]++
		}
	}

	footprintTree := btree.New(32)
	var idx uint64
	for addr, count := range histograms[0] {
		footprintTree.ReplaceOrInsert(addressItem{addr: addr, count: count, tiebreak: idx})
		idx++
	}
	r.TotalMemoryFootprint = footprintTree.Len()

	sortedFootprint := make([]addressItem, 0, footprintTree.Len())
	footprintTree.Ascend(func(it btree.Item) bool {
		sortedFootprint = append(sortedFootprint, it.(addressItem))
		return true
	})

	var accessCount uint64
	for _, e := range sortedFootprint {
		accessCount += e.count
	}
	r.MemoryAccessCount = accessCount

	if accessCount > 0 {
		threshold := ceilFrac90(accessCount)
		var running uint64
		for _, e := range sortedFootprint {
			running += e.count
			r.Footprint90Pct++
			if running >= threshold {
				break
			}
		}

		probs := make([]float64, len(sortedFootprint))
		for i, e := range sortedFootprint {
			probs[i] = float64(e.count) / float64(accessCount)
		}
		r.GlobalEntropy = stat.Entropy(probs) / math.Ln2

		for shift := 1; shift <= 10; shift++ {
			hist := histograms[shift]
			probs := make([]float64, 0, len(hist))
			for _, count := range hist {
				probs = append(probs, float64(count)/float64(accessCount))
			}
			r.LocalEntropy[shift-1] = stat.Entropy(probs) / math.Ln2
		}
	}

	// ---- Memory diversity ----
	r.GlobalMemAccesses = a.GlobalMemAccesses
	r.LocalMemAccesses = a.LocalMemAccesses
	r.ConstantMemAccesses = a.ConstantMemAccesses
	totalMemAccess := a.GlobalMemAccesses + a.LocalMemAccesses + a.ConstantMemAccesses
	if totalMemAccess > 0 {
		r.RelativeLocalPct = float64(a.LocalMemAccesses) / float64(totalMemAccess) * 100
		r.RelativeConstantPct = float64(a.ConstantMemAccesses) / float64(totalMemAccess) * 100
	}

	// ---- Control ----
	branchTree := btree.New(32)
	for line, taken := range a.BranchOps {
		branchTree.ReplaceOrInsert(branchItem{Line: line, Length: len(taken)})
	}
	r.SortedBranches = make([]BranchCount, 0, branchTree.Len())
	branchTree.Ascend(func(it btree.Item) bool {
		r.SortedBranches = append(r.SortedBranches, BranchCount(it.(branchItem)))
		return true
	})

	var branchTotal uint64
	for _, b := range r.SortedBranches {
		branchTotal += uint64(b.Length)
	}
	r.TotalBranchCount = branchTotal
	if branchTotal > 0 {
		threshold := ceilFrac90(branchTotal)
		var running uint64
		for _, b := range r.SortedBranches {
			running += uint64(b.Length)
			r.UniqueBranchesFor90Pct++
			if running >= threshold {
				break
			}
		}
	}

	// ---- Branch entropy ----
	r.YokotaEntropy, r.YokotaEntropyPerWorkload, r.AverageLinearEntropy = branchEntropy(a.BranchOps)

	return r
}

// addressItem carries a stable tiebreak so btree never silently merges
// two distinct addresses that happen to share an access count.
type addressItem struct {
	addr     uint64
	count    uint64
	tiebreak uint64
}

func (a addressItem) Less(than btree.Item) bool {
	b := than.(addressItem)
	if a.count != b.count {
		return a.count > b.count
	}
	return a.tiebreak < b.tiebreak
}

// branchEntropy computes the Yokota and average-linear branch entropy
// for every branch site with at least m recorded outcomes. p is
// deliberately the intra-window taken rate (takenCount / m), not the
// pattern's empirical frequency across windows.
func branchEntropy(branchOps map[uint32][]bool) (yokota, yokotaPerWorkload, average float64) {
	const m = BranchHistoryWindow

	var n uint64
	for _, seq := range branchOps {
		if len(seq) < m {
			continue
		}

		patterns := make(map[string]uint64)
		for i := 0; i+m <= len(seq); i++ {
			buf := make([]byte, m)
			for j := 0; j < m; j++ {
				if seq[i+j] {
					buf[j] = '1'
				} else {
					buf[j] = '0'
				}
			}
			patterns[string(buf)]++
		}

		for pattern, occurrences := range patterns {
			taken := 0
			for _, c := range pattern {
				if c == '1' {
					taken++
				}
			}
			p := float64(taken) / float64(m)

			if p != 0 {
				yokota -= float64(occurrences) * p * math.Log2(p)
				yokotaPerWorkload -= p * math.Log2(p)
			}

			linear := 2 * math.Min(p, 1-p)
			average += float64(occurrences) * linear
			n += occurrences
		}
	}

	if n > 0 {
		average /= float64(n)
	}
	if math.IsNaN(average) {
		average = 0
	}
	return yokota, yokotaPerWorkload, average
}
