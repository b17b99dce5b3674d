package aggregate_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oclgrind/aiwc/aggregate"
	"github.com/oclgrind/aiwc/internal/testsupport"
	"github.com/oclgrind/aiwc/worker"
)

var _ = Describe("Aggregate", func() {
	It("starts empty", func() {
		a := aggregate.New()
		Expect(a.ComputeOps).To(BeEmpty())
		Expect(a.ThreadsInvoked).To(BeZero())
	})

	It("merges a worker's compute ops, threads and memory ops", func() {
		a := aggregate.New()
		ws := worker.New()
		ws.BeginGroup()
		ws.WorkItemBegin()
		Expect(ws.InstructionExecuted(testsupport.Add(1))).To(Succeed())
		Expect(ws.InstructionExecuted(testsupport.Load("x", 2 /* Global */, 1))).To(Succeed())
		ws.MemoryLoad(testsupport.Region(2), 0x1000)
		ws.WorkItemComplete()

		a.Merge(ws)

		Expect(a.ComputeOps).To(HaveKeyWithValue("add", uint64(1)))
		Expect(a.ComputeOps).To(HaveKeyWithValue("load", uint64(1)))
		Expect(a.ThreadsInvoked).To(Equal(uint64(1)))
		Expect(a.MemoryOps).To(ContainElement(uint64(0x1000)))
	})

	It("resets the worker state after merging so it is ready for reuse", func() {
		a := aggregate.New()
		ws := worker.New()
		ws.BeginGroup()
		ws.WorkItemBegin()
		Expect(ws.InstructionExecuted(testsupport.Add(1))).To(Succeed())
		ws.WorkItemComplete()

		a.Merge(ws)

		Expect(ws.ComputeOps).To(BeEmpty())
		Expect(ws.ThreadsInvoked).To(BeZero())
	})

	It("is safe for concurrent merges from many workers", func() {
		a := aggregate.New()
		const numWorkers = 32

		var wg sync.WaitGroup
		for i := 0; i < numWorkers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ws := worker.New()
				ws.BeginGroup()
				ws.WorkItemBegin()
				Expect(ws.InstructionExecuted(testsupport.Add(1))).To(Succeed())
				ws.WorkItemComplete()
				a.Merge(ws)
			}()
		}
		wg.Wait()

		Expect(a.ComputeOps["add"]).To(Equal(uint64(numWorkers)))
		Expect(a.ThreadsInvoked).To(Equal(uint64(numWorkers)))
	})

	It("Reset clears the aggregate for the next kernel invocation", func() {
		a := aggregate.New()
		ws := worker.New()
		ws.BeginGroup()
		ws.WorkItemBegin()
		Expect(ws.InstructionExecuted(testsupport.Add(1))).To(Succeed())
		ws.WorkItemComplete()
		a.Merge(ws)

		a.Reset()

		Expect(a.ComputeOps).To(BeEmpty())
		Expect(a.ThreadsInvoked).To(BeZero())
	})
})
