package walltime_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oclgrind/aiwc/walltime"
)

var _ = Describe("Clock", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "aiwc-walltime-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("reports a positive elapsed duration between Start and Stop", func() {
		c := walltime.New(dir)
		c.Start("vecadd")
		time.Sleep(time.Millisecond)
		elapsed := c.Stop("vecadd")

		Expect(elapsed).To(BeNumerically(">", 0))
	})

	It("returns 0 for a kernel that was never started", func() {
		c := walltime.New(dir)
		Expect(c.Stop("never-started")).To(Equal(0.0))
	})

	It("writes a JSON summary of every stopped kernel at Finalize", func() {
		c := walltime.New(dir)
		c.Start("a")
		c.Stop("a")
		c.Start("b")
		c.Stop("b")

		c.Finalize()

		matches, err := filepath.Glob(filepath.Join(dir, "aiwc_walltime_*.json"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))

		data, err := os.ReadFile(matches[0])
		Expect(err).NotTo(HaveOccurred())

		var timings []walltime.KernelTiming
		Expect(json.Unmarshal(data, &timings)).To(Succeed())
		Expect(timings).To(HaveLen(2))
		Expect(timings[0].Kernel).To(Equal("a"))
		Expect(timings[1].Kernel).To(Equal("b"))
	})

	It("writes nothing when no kernel was ever stopped", func() {
		c := walltime.New(dir)
		c.Finalize()

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})
})
