// Package report renders a metrics.Report as a Markdown-flavored
// stdout artifact and a per-kernel CSV artifact.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/oclgrind/aiwc/metrics"
)

var (
	h1 = color.New(color.Bold, color.FgCyan)
	h2 = color.New(color.Bold, color.FgCyan)
	h3 = color.New(color.Bold)
)

// WriteStdout renders the human-readable report for one kernel
// invocation. Numeric formatting uses English thousands separators via
// golang.org/x/text/message; a Printer is request-scoped in Go, so
// nothing needs to be restored once WriteStdout returns.
func WriteStdout(w io.Writer, kernelName string, m metrics.Report) {
	p := message.NewPrinter(language.English)

	fmt.Fprintln(w)
	h1.Fprintf(w, "# Architecture-Independent Workload Characterization of kernel: %s\n", kernelName)

	writeCompute(w, p, m)
	writeParallelism(w, p, m)
	writeMemory(w, p, m)
	writeControl(w, p, m)
}

func writeCompute(w io.Writer, p *message.Printer, m metrics.Report) {
	fmt.Fprintln(w)
	h2.Fprintln(w, "## Compute")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "|Opcode|count|")
	fmt.Fprintln(w, "|--------------------|-----------:|")
	for _, oc := range m.SortedOpcodes {
		p.Fprintf(w, "|%s|%d|\n", oc.Opcode, oc.Count)
	}
	fmt.Fprintln(w)

	p.Fprintf(w, "unique opcodes required to cover 90%% of dynamic instructions: %v\n\n",
		join(m.Opcodes90Pct))
	p.Fprintf(w, "num unique opcodes required to cover 90%% of dynamic instructions: %d\n\n",
		m.UniqueOpcodesFor90Pct)
	p.Fprintf(w, "Total Instruction Count: %d\n", m.TotalInstructionCount)
}

func writeParallelism(w io.Writer, p *message.Printer, m metrics.Report) {
	fmt.Fprintln(w)
	h2.Fprintln(w, "## Parallelism")

	fmt.Fprintln(w)
	h3.Fprintln(w, "### Utilization")
	fmt.Fprintln(w)
	p.Fprintf(w, "Freedom to Reorder: %.2f\n\n", m.FreedomToReorder)
	p.Fprintf(w, "Resource Pressure: %.2f\n", m.ResourcePressure)

	fmt.Fprintln(w)
	h3.Fprintln(w, "### Thread-Level Parallelism")
	fmt.Fprintln(w)
	p.Fprintf(w, "Work-items: %d\n\n", m.ThreadsInvoked)
	p.Fprintf(w, "Granularity: %v\n\n", m.Granularity)
	p.Fprintf(w, "Total Barriers Hit: %d\n\n", m.BarriersHit)
	p.Fprintf(w, "Instructions to Barrier (min/max/median): %d/%d/%d\n\n",
		m.InstToBarrierMin, m.InstToBarrierMax, m.InstToBarrierMedian)
	p.Fprintf(w, "Barriers per Instruction: %v\n\n", m.BarriersPerInstruction)

	h3.Fprintln(w, "### Work Distribution")
	fmt.Fprintln(w)
	p.Fprintf(w, "Instructions per Thread (min/max/median): %d/%d/%d\n\n",
		m.InstPerWorkitemMin, m.InstPerWorkitemMax, m.InstPerWorkitemMedian)

	h3.Fprintln(w, "### Data Parallelism")
	fmt.Fprintln(w)
	p.Fprintf(w, "SIMD Width (min/max/mean/stdev): %d/%d/%v/%v\n\n",
		m.SimdMin, m.SimdMax, m.SimdMean, m.SimdStdev)
	p.Fprintf(w, "Instructions per Operand: %v\n", m.InstructionsPerOperand)
}

func writeMemory(w io.Writer, p *message.Printer, m metrics.Report) {
	fmt.Fprintln(w)
	h2.Fprintln(w, "## Memory")

	fmt.Fprintln(w)
	h3.Fprintln(w, "### Memory Footprint")
	fmt.Fprintln(w)
	p.Fprintf(w, "num memory accesses: %d\n\n", m.MemoryAccessCount)
	p.Fprintf(w, "Total Memory Footprint -- num unique memory addresses accessed: %d\n\n",
		m.TotalMemoryFootprint)
	p.Fprintf(w, "90%% Memory Footprint -- num unique memory addresses that cover 90%% of memory accesses: %d\n\n",
		m.Footprint90Pct)

	h3.Fprintln(w, "### Memory Entropy")
	fmt.Fprintln(w)
	p.Fprintf(w, "Global Memory Address Entropy -- measure of the randomness of memory addresses: %v\n\n",
		m.GlobalEntropy)
	fmt.Fprintln(w, "Local Memory Address Entropy -- measure of the spatial locality of memory addresses")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "|LSBs skipped|Entropy|")
	fmt.Fprintln(w, "|-----------:|-------:|")
	for skip := 1; skip <= 10; skip++ {
		p.Fprintf(w, "|%d|%.4f|\n", skip, m.LocalEntropy[skip-1])
	}

	fmt.Fprintln(w)
	h3.Fprintln(w, "### Memory Diversity -- Usage of local and constant memory relative to global memory")
	fmt.Fprintln(w)
	p.Fprintf(w, "num global memory accesses: %d\n\n", m.GlobalMemAccesses)
	p.Fprintf(w, "num local memory accesses: %d\n\n", m.LocalMemAccesses)
	p.Fprintf(w, "num constant memory accesses: %d\n\n", m.ConstantMemAccesses)
	p.Fprintf(w, "%% local memory accesses (local/total): %.2f\n\n", m.RelativeLocalPct)
	p.Fprintf(w, "%% constant memory accesses (constant/total): %.2f\n", m.RelativeConstantPct)
}

func writeControl(w io.Writer, p *message.Printer, m metrics.Report) {
	fmt.Fprintln(w)
	h2.Fprintln(w, "## Control")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Unique Branch Instructions -- Total number of unique branch instructions to cover 90% of the branches")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "|Branch At Line|Count (hit and miss)|")
	fmt.Fprintln(w, "|--------------|----------------------:|")
	for _, b := range m.SortedBranches {
		p.Fprintf(w, "|%d|%d|\n", b.Line, b.Length)
	}
	fmt.Fprintln(w)
	p.Fprintf(w, "Number of unique branches that cover 90%% of all branch instructions: %d\n",
		m.UniqueBranchesFor90Pct)

	fmt.Fprintln(w)
	h3.Fprintln(w, "### Branch Entropy -- measure of the randomness of branch behaviour, representing branch predictability")
	fmt.Fprintln(w)
	p.Fprintf(w, "Using a branch history of %d\n\n", metrics.BranchHistoryWindow)
	p.Fprintf(w, "Yokota Branch Entropy: %v\n\n", m.YokotaEntropy)
	p.Fprintf(w, "Yokota Branch Entropy per Workload: %v\n\n", m.YokotaEntropyPerWorkload)
	p.Fprintf(w, "Average Linear Branch Entropy: %v\n", m.AverageLinearEntropy)
}

func join(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
