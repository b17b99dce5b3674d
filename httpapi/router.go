// Package httpapi exposes the CSV artifacts a Plugin writes to disk
// over a small read-only HTTP surface, for dashboards that would
// rather poll a URL than watch a directory. It never touches the
// running Plugin; it only globs the output directory report.WriteCSV
// and transfer.Log.Finalize already wrote into.
package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
)

var (
	kernelReportPattern = regexp.MustCompile(`^aiwc_(.+)_(\d+)\.csv$`)
	transfersPattern    = regexp.MustCompile(`^aiwc_memory_transfers_(\d+)\.csv$`)
)

// NewRouter builds the router. outputDir is the directory a Plugin
// constructed with the same path writes aiwc_*.csv and
// aiwc_memory_transfers_*.csv into.
func NewRouter(outputDir string) *mux.Router {
	r := mux.NewRouter()
	h := &handler{outputDir: outputDir}
	r.HandleFunc("/kernels", h.listKernels).Methods(http.MethodGet)
	r.HandleFunc("/kernels/{name}/report.csv", h.kernelReport).Methods(http.MethodGet)
	r.HandleFunc("/transfers.csv", h.transfers).Methods(http.MethodGet)
	return r
}

type handler struct {
	outputDir string
}

// latestReportsByKernel globs the output directory for aiwc_<name>_<N>.csv
// files and returns, per kernel name, the path with the largest N — the
// most recent report.WriteCSV call for that kernel.
func (h *handler) latestReportsByKernel() (map[string]string, error) {
	entries, err := os.ReadDir(h.outputDir)
	if err != nil {
		return nil, err
	}

	latestN := make(map[string]int)
	latestPath := make(map[string]string)
	for _, e := range entries {
		if transfersPattern.MatchString(e.Name()) {
			continue
		}
		m := kernelReportPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		name := m[1]
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if existing, ok := latestN[name]; !ok || n > existing {
			latestN[name] = n
			latestPath[name] = filepath.Join(h.outputDir, e.Name())
		}
	}
	return latestPath, nil
}

func (h *handler) listKernels(w http.ResponseWriter, r *http.Request) {
	byKernel, err := h.latestReportsByKernel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(byKernel))
	for name := range byKernel {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	w.Header().Set("Content-Type", "text/csv")
	_ = cw.Write([]string{"kernel"})
	for _, name := range names {
		_ = cw.Write([]string{name})
	}
	cw.Flush()
}

func (h *handler) kernelReport(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	byKernel, err := h.latestReportsByKernel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	path, ok := byKernel[name]
	if !ok {
		http.Error(w, fmt.Sprintf("no report for kernel %q", name), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	http.ServeFile(w, r, path)
}

func (h *handler) transfers(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.outputDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	best, bestN := "", -1
	for _, e := range entries {
		m := transfersPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > bestN {
			bestN = n
			best = filepath.Join(h.outputDir, e.Name())
		}
	}
	if best == "" {
		http.Error(w, "no memory transfer log written yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	http.ServeFile(w, r, best)
}
