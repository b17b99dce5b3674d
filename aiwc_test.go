package aiwc_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oclgrind/aiwc"
	"github.com/oclgrind/aiwc/hostapi"
	"github.com/oclgrind/aiwc/internal/testsupport"
)

var _ = Describe("Plugin", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "aiwc-plugin-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("drives a whole kernel invocation across two concurrently-executing workers", func() {
		p := aiwc.New(dir)
		defer p.Close()

		var w1, w2 hostapi.WorkerID = "worker-1", "worker-2"

		p.KernelBegin("vecadd")

		for _, w := range []hostapi.WorkerID{w1, w2} {
			p.WorkGroupBegin(w, "group-0")
			p.WorkItemBegin(w, "item-0")
			p.InstructionExecuted(w, testsupport.Add(4))
			p.InstructionExecuted(w, testsupport.Load("a", hostapi.Global, 4))
			p.MemoryLoad(w, testsupport.Region(hostapi.Global), 0x1000, 4)
			p.WorkItemComplete(w, "item-0")
			p.WorkGroupComplete(w, "group-0")
		}

		p.KernelEnd("vecadd")

		matches, err := filepath.Glob(filepath.Join(dir, "aiwc_vecadd_*.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))
	})

	It("writes a separate report for each of two back-to-back invocations", func() {
		p := aiwc.New(dir)
		defer p.Close()

		run := func(name string) {
			p.KernelBegin(name)
			p.WorkGroupBegin("w", "g")
			p.WorkItemBegin("w", "i")
			p.InstructionExecuted("w", testsupport.Add(1))
			p.WorkItemComplete("w", "i")
			p.WorkGroupComplete("w", "g")
			p.KernelEnd(name)
		}

		run("k1")
		run("k2")

		matches, err := filepath.Glob(filepath.Join(dir, "aiwc_k1_*.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))

		matches, err = filepath.Glob(filepath.Join(dir, "aiwc_k2_*.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))
	})

	It("writes the memory transfers log on Close after host transfers around a kernel", func() {
		p := aiwc.New(dir)

		p.HostMemoryStore(nil, 0, 0)
		p.HostMemoryStore(nil, 0, 0)
		p.KernelBegin("k")
		p.WorkGroupBegin("w", "g")
		p.WorkItemBegin("w", "i")
		p.InstructionExecuted("w", testsupport.Add(1))
		p.WorkItemComplete("w", "i")
		p.WorkGroupComplete("w", "g")
		p.KernelEnd("k")
		p.HostMemoryLoad(nil, 0, 0)

		p.Close()

		matches, err := filepath.Glob(filepath.Join(dir, "aiwc_memory_transfers_*.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))
	})

	It("implements hostapi.Sink", func() {
		var _ hostapi.Sink = aiwc.New(os.TempDir())
	})

	It("accepts instructions from many workers running concurrently without serializing them on a shared lock", func() {
		p := aiwc.New(dir)
		defer p.Close()

		const workerCount = 32
		p.KernelBegin("concurrent")

		var wg sync.WaitGroup
		wg.Add(workerCount)
		for i := 0; i < workerCount; i++ {
			w := hostapi.WorkerID(fmt.Sprintf("worker-%d", i))
			go func(w hostapi.WorkerID) {
				defer wg.Done()
				p.WorkGroupBegin(w, "group")
				p.WorkItemBegin(w, "item")
				for j := 0; j < 50; j++ {
					p.InstructionExecuted(w, testsupport.Add(4))
					p.InstructionExecuted(w, testsupport.Load("a", hostapi.Global, 4))
					p.MemoryLoad(w, testsupport.Region(hostapi.Global), uint64(j), 4)
				}
				p.WorkItemComplete(w, "item")
			}(w)
		}
		wg.Wait()

		for i := 0; i < workerCount; i++ {
			w := hostapi.WorkerID(fmt.Sprintf("worker-%d", i))
			p.WorkGroupComplete(w, "group")
		}

		p.KernelEnd("concurrent")

		matches, err := filepath.Glob(filepath.Join(dir, "aiwc_concurrent_*.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))
	})
})
