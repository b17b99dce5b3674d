package metrics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oclgrind/aiwc/aggregate"
	"github.com/oclgrind/aiwc/metrics"
)

var _ = Describe("Compute", func() {
	Context("single work-item, three adds", func() {
		It("counts one opcode with 100% granularity and no SIMD variance", func() {
			a := aggregate.New()
			a.ComputeOps["add"] = 3
			a.InstructionWidth[1] = 3
			a.ThreadsInvoked = 1
			a.InstructionsPerWorkitem = []uint64{3}
			a.InstructionsBetweenBarriers = []uint64{3}

			m := metrics.Compute(a)

			Expect(m.TotalInstructionCount).To(Equal(uint64(3)))
			Expect(m.SortedOpcodes).To(Equal([]metrics.OpcodeCount{{Opcode: "add", Count: 3}}))
			Expect(m.UniqueOpcodesFor90Pct).To(Equal(1))
			Expect(m.ThreadsInvoked).To(Equal(uint64(1)))
			Expect(m.Granularity).To(Equal(1.0))
			Expect(m.SimdMin).To(Equal(uint32(1)))
			Expect(m.SimdMax).To(Equal(uint32(1)))
			Expect(m.SimdMean).To(Equal(1.0))
			Expect(m.SimdStdev).To(Equal(0.0))
			Expect(m.InstructionsPerOperand).To(Equal(1.0))
		})
	})

	Context("two work-items, one barrier each", func() {
		It("matches instructions-to-barrier and barriers-per-instruction", func() {
			a := aggregate.New()
			a.ComputeOps["add"] = 12
			a.InstructionWidth[1] = 12
			a.ThreadsInvoked = 2
			a.BarriersHit = 2
			a.InstructionsBetweenBarriers = []uint64{4, 4, 2, 2}
			a.InstructionsPerWorkitem = []uint64{6, 6}

			m := metrics.Compute(a)

			Expect(m.InstToBarrierMedian).To(Equal(uint64(3)))
			Expect(m.BarriersPerInstruction).To(BeNumerically("~", float64(2+2)/12.0, 1e-9))
		})
	})

	Context("memory footprint over four accesses to one address and one to another", func() {
		It("computes entropy and 90% footprint over 4+1 accesses", func() {
			a := aggregate.New()
			a.ComputeOps["load"] = 5
			a.InstructionWidth[1] = 5
			a.ThreadsInvoked = 1
			a.GlobalMemAccesses = 5
			for i := 0; i < 4; i++ {
				a.MemoryOps = append(a.MemoryOps, 0x1000)
			}
			a.MemoryOps = append(a.MemoryOps, 0x2000)

			m := metrics.Compute(a)

			Expect(m.TotalMemoryFootprint).To(Equal(2))
			Expect(m.Footprint90Pct).To(Equal(1))
			Expect(m.MemoryAccessCount).To(Equal(uint64(5)))
			Expect(m.GlobalEntropy).To(BeNumerically("~", 0.7219, 1e-3))
		})
	})

	Context("branch entropy, always taken", func() {
		It("yields zero entropy since p=1 for every window", func() {
			a := aggregate.New()
			seq := make([]bool, 32)
			for i := range seq {
				seq[i] = true
			}
			a.BranchOps[17] = seq
			a.ComputeOps["br"] = 32
			a.InstructionWidth[1] = 32
			a.ThreadsInvoked = 1

			m := metrics.Compute(a)

			Expect(m.YokotaEntropyPerWorkload).To(Equal(0.0))
			Expect(m.AverageLinearEntropy).To(Equal(0.0))
		})
	})

	Context("branch entropy, perfectly alternating", func() {
		It("yields average linear entropy of 1.0", func() {
			a := aggregate.New()
			seq := make([]bool, 64)
			for i := range seq {
				seq[i] = i%2 == 0
			}
			a.BranchOps[42] = seq
			a.ComputeOps["br"] = 64
			a.InstructionWidth[1] = 64
			a.ThreadsInvoked = 1

			m := metrics.Compute(a)

			Expect(m.AverageLinearEntropy).To(BeNumerically("~", 1.0, 1e-9))
		})
	})

	Context("boundary case: single branch shorter than the history window", func() {
		It("excludes it from entropy, leaving average entropy at 0", func() {
			a := aggregate.New()
			a.BranchOps[5] = []bool{true, false, true}
			a.ComputeOps["br"] = 3
			a.InstructionWidth[1] = 3
			a.ThreadsInvoked = 1

			m := metrics.Compute(a)

			Expect(m.AverageLinearEntropy).To(Equal(0.0))
			Expect(math.IsNaN(m.AverageLinearEntropy)).To(BeFalse())
		})
	})

	Context("boundary case: zero work-groups (no instructions at all)", func() {
		It("is degenerate and does not panic", func() {
			a := aggregate.New()

			m := metrics.Compute(a)

			Expect(m.Degenerate).To(BeTrue())
			Expect(m.TotalInstructionCount).To(BeZero())
		})
	})

	Context("boundary case: freedom to reorder with an empty sequence", func() {
		It("reports 0 instead of NaN", func() {
			a := aggregate.New()
			a.ComputeOps["add"] = 1
			a.InstructionWidth[1] = 1
			a.ThreadsInvoked = 1

			m := metrics.Compute(a)

			Expect(m.FreedomToReorder).To(Equal(0.0))
		})
	})

	Context("invariant: totalInstructionCount == sum(computeOps) == sum(instructionWidth)", func() {
		It("holds for a mixed workload", func() {
			a := aggregate.New()
			a.ComputeOps["add"] = 5
			a.ComputeOps["load"] = 3
			a.InstructionWidth[1] = 6
			a.InstructionWidth[4] = 2
			a.ThreadsInvoked = 1

			m := metrics.Compute(a)

			var sumOps uint64
			for _, oc := range m.SortedOpcodes {
				sumOps += oc.Count
			}
			Expect(m.TotalInstructionCount).To(Equal(sumOps))
			Expect(m.TotalInstructionCount).To(Equal(uint64(8)))
		})
	})
})
