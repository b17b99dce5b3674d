package report

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/oclgrind/aiwc/internal/seqfile"
	"github.com/oclgrind/aiwc/metrics"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatUint(u uint64) string {
	return strconv.FormatUint(u, 10)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// csvRows builds the metric,count rows in a fixed order, using
// locale-neutral strconv formatting throughout — unlike the stdout
// report, the CSV artifact never uses thousands separators.
func csvRows(m metrics.Report) [][]string {
	rows := [][]string{
		{"opcode", formatInt(m.UniqueOpcodesFor90Pct)},
		{"total instruction count", formatUint(m.TotalInstructionCount)},
		{"freedom to reorder", formatFloat(m.FreedomToReorder)},
		{"resource pressure", formatFloat(m.ResourcePressure)},
		{"workitems", formatUint(m.ThreadsInvoked)},
		{"operand sum", formatUint(m.SimdSum)},
		{"total # of barriers hit", formatUint(m.BarriersHit)},
		{"min instructions to barrier", formatUint(m.InstToBarrierMin)},
		{"max instructions to barrier", formatUint(m.InstToBarrierMax)},
		{"median instructions to barrier", formatUint(m.InstToBarrierMedian)},
		{"min instructions executed by a work-item", formatUint(m.InstPerWorkitemMin)},
		{"max instructions executed by a work-item", formatUint(m.InstPerWorkitemMax)},
		{"median instructions executed by a work-item", formatUint(m.InstPerWorkitemMedian)},
		{"max simd width", formatUint(uint64(m.SimdMax))},
		{"mean simd width", formatFloat(m.SimdMean)},
		{"stdev simd width", formatFloat(m.SimdStdev)},
		{"granularity", formatFloat(m.Granularity)},
		{"barriers per instruction", formatFloat(m.BarriersPerInstruction)},
		{"instructions per operand", formatFloat(m.InstructionsPerOperand)},
		{"total memory footprint", formatInt(m.TotalMemoryFootprint)},
		{"90% memory footprint", formatInt(m.Footprint90Pct)},
		{"global memory address entropy", formatFloat(m.GlobalEntropy)},
	}
	for skip := 1; skip <= 10; skip++ {
		rows = append(rows, []string{
			fmt.Sprintf("local memory address entropy -- %d LSBs skipped", skip),
			formatFloat(m.LocalEntropy[skip-1]),
		})
	}
	rows = append(rows,
		[]string{"total global memory accessed", formatUint(m.GlobalMemAccesses)},
		[]string{"total local memory accessed", formatUint(m.LocalMemAccesses)},
		[]string{"total constant memory accessed", formatUint(m.ConstantMemAccesses)},
		[]string{"relative local memory usage", formatFloat(m.RelativeLocalPct)},
		[]string{"relative constant memory usage", formatFloat(m.RelativeConstantPct)},
		[]string{"total unique branch instructions", formatInt(len(m.SortedBranches))},
		[]string{"90% branch instructions", formatInt(m.UniqueBranchesFor90Pct)},
		[]string{"branch entropy (yokota)", formatFloat(m.YokotaEntropyPerWorkload)},
		[]string{"branch entropy (average linear)", formatFloat(m.AverageLinearEntropy)},
	)
	return rows
}

// WriteCSV writes the per-kernel aiwc_<kernelName>_<N>.csv artifact,
// choosing the smallest non-existing N. outputDir may be empty for the
// current working directory. The caller (aiwc.Plugin) treats a
// non-nil error as unrecoverable: the report is the tool's one output
// artifact and cannot be silently dropped.
func WriteCSV(outputDir, kernelName string, m metrics.Report) (string, error) {
	path, f, err := seqfile.Create(outputDir, "aiwc_"+kernelName+"_", ".csv")
	if err != nil {
		return "", fmt.Errorf("aiwc: create report csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"metric", "count"}); err != nil {
		return "", err
	}
	for _, row := range csvRows(m) {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
