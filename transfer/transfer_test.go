package transfer_test

import (
	"os"
	"path/filepath"

	"encoding/csv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oclgrind/aiwc/transfer"
)

var _ = Describe("Log", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "aiwc-transfer-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("attributes host-to-device copies retroactively to the kernel that follows them", func() {
		l := transfer.New(dir)

		l.HostMemoryStore()
		l.HostMemoryStore()
		l.KernelBegin("K")
		l.KernelEnd("K")
		l.HostMemoryLoad()

		l.Finalize()

		rows := readCSV(dir)
		Expect(rows).To(ContainElement([]string{"transfer: host to device", "K", "2"}))
		Expect(rows).To(ContainElement([]string{"transfer: device to host", "K", "1"}))
	})

	It("is idempotent: a second Finalize call does not write a second file", func() {
		l := transfer.New(dir)
		l.HostMemoryStore()
		l.KernelBegin("K")

		l.Finalize()
		l.Finalize()

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})

	It("leaves un-named transfers attributed to the empty kernel name", func() {
		l := transfer.New(dir)
		l.HostMemoryStore()

		l.Finalize()

		rows := readCSV(dir)
		Expect(rows).To(ContainElement([]string{"transfer: host to device", "", "1"}))
	})
})

func readCSV(dir string) [][]string {
	matches, err := filepath.Glob(filepath.Join(dir, "aiwc_memory_transfers_*.csv"))
	Expect(err).NotTo(HaveOccurred())
	Expect(matches).To(HaveLen(1))

	f, err := os.Open(matches[0])
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	Expect(err).NotTo(HaveOccurred())
	return rows[1:]
}
