// Command aiwc-demo drives an aiwc.Plugin against a synthetic kernel
// invocation, without a real LLVM-IR interpreter behind it. It exists
// so the measurement core can be exercised and its HTTP surface poked
// at without wiring up an actual OpenCL host.
package main

import (
	"flag"
	"log"
	"math/rand"
	"net/http"

	"github.com/rs/xid"

	"github.com/oclgrind/aiwc"
	"github.com/oclgrind/aiwc/hostapi"
	"github.com/oclgrind/aiwc/httpapi"
	"github.com/oclgrind/aiwc/internal/testsupport"
)

var (
	kernelNameFlag  = flag.String("kernel", "vecadd", "synthetic kernel name to report under")
	workGroupsFlag  = flag.Int("groups", 4, "number of synthetic work-groups")
	workItemsFlag   = flag.Int("items", 64, "work-items per work-group")
	serveFlag       = flag.Bool("serve", false, "serve the aiwc HTTP surface after running")
	listenAddrFlag  = flag.String("listen", ":8080", "address to serve on when -serve is set")
)

func main() {
	flag.Parse()

	p := aiwc.New(*aiwc.OutputDirFlag)
	defer p.Close()

	runSyntheticKernel(p, *kernelNameFlag, *workGroupsFlag, *workItemsFlag)

	if *serveFlag {
		r := httpapi.NewRouter(*aiwc.OutputDirFlag)
		log.Printf("aiwc-demo: serving %s", *listenAddrFlag)
		log.Fatal(http.ListenAndServe(*listenAddrFlag, r))
	}
}

// runSyntheticKernel fires the same hostapi.Sink call sequence a real
// interpreter would around one kernel invocation: each work-group runs
// on its own worker identity, executes a handful of compute and memory
// instructions per work-item, and in every work-group the middle
// work-item (index items/2) hits a barrier partway through.
func runSyntheticKernel(p *aiwc.Plugin, kernelName string, groups, items int) {
	p.KernelBegin(kernelName)

	for g := 0; g < groups; g++ {
		worker := hostapi.WorkerID(xid.New().String())
		groupID := xid.New().String()

		p.WorkGroupBegin(worker, groupID)
		for i := 0; i < items; i++ {
			itemID := xid.New().String()
			p.WorkItemBegin(worker, itemID)

			p.InstructionExecuted(worker, testsupport.Add(4))
			p.InstructionExecuted(worker, testsupport.Load("a", hostapi.Global, 4))
			p.MemoryLoad(worker, testsupport.Region(hostapi.Global), randomAddress(), 4)
			p.InstructionExecuted(worker, testsupport.Add(4))

			if i == items/2 {
				p.WorkItemBarrier(worker, itemID)
			}

			p.InstructionExecuted(worker, testsupport.Store("c", hostapi.Global, 4))
			p.MemoryStore(worker, testsupport.Region(hostapi.Global), randomAddress(), 4)

			p.WorkItemComplete(worker, itemID)
		}
		p.WorkGroupComplete(worker, groupID)
	}

	p.KernelEnd(kernelName)
}

func randomAddress() uint64 {
	return uint64(rand.Intn(1 << 16))
}
