// Package testsupport provides lightweight, hand-rolled fakes of the
// hostapi interfaces for tests that need to script a long sequence of
// instructions — a gomock expectation per call would be unreadable at
// that scale, so most specs use these instead of the mocks package.
package testsupport

import "github.com/oclgrind/aiwc/hostapi"

// Region is a fake hostapi.MemoryRegion tagged with a fixed address
// space.
type Region hostapi.AddressSpace

func (r Region) AddressSpace() hostapi.AddressSpace { return hostapi.AddressSpace(r) }

// Inst is a fake hostapi.Instruction covering every field the worker
// package reads. Zero value is a harmless non-memory, non-branch
// instruction with SIMD width 0.
type Inst struct {
	Op            string
	Labels        []string
	Block         string
	PtrName       string
	PtrSpace      hostapi.AddressSpace
	SourceLine    uint32
	Width         uint32
	IsCondBranch  bool
}

func (i Inst) Opcode() string        { return i.Op }
func (i Inst) OperandCount() int     { return len(i.Labels) }
func (i Inst) IsLabelOperand(n int) bool {
	return n >= 0 && n < len(i.Labels)
}
func (i Inst) OperandLabel(n int) string {
	if n < 0 || n >= len(i.Labels) {
		return ""
	}
	return i.Labels[n]
}
func (i Inst) ParentBlockLabel() string             { return i.Block }
func (i Inst) PointerOperandName() string           { return i.PtrName }
func (i Inst) PointerAddressSpace() hostapi.AddressSpace { return i.PtrSpace }
func (i Inst) Line() uint32                         { return i.SourceLine }
func (i Inst) ResultWidth() uint32                  { return i.Width }
func (i Inst) IsConditionalBranch() bool            { return i.IsCondBranch }

// Add returns a plain compute instruction with the given SIMD width.
func Add(width uint32) Inst {
	return Inst{Op: "add", Width: width}
}

// Load returns a load instruction targeting the given pointer name and
// address space, with the given SIMD width.
func Load(ptrName string, space hostapi.AddressSpace, width uint32) Inst {
	return Inst{Op: "load", PtrName: ptrName, PtrSpace: space, Width: width}
}

// Store returns a store instruction targeting the given pointer name and
// address space, with the given SIMD width.
func Store(ptrName string, space hostapi.AddressSpace, width uint32) Inst {
	return Inst{Op: "store", PtrName: ptrName, PtrSpace: space, Width: width}
}

// Branch returns a two-target conditional branch at line, with target
// labels t1/t2, width 1 (branches don't produce a vector result).
func Branch(line uint32, t1, t2 string) Inst {
	return Inst{
		Op:           "br",
		Labels:       []string{"", t1, t2},
		SourceLine:   line,
		Width:        1,
		IsCondBranch: true,
	}
}

// InBlock returns a copy of i attributed to the given parent block —
// used for the instruction immediately following a Branch, whose block
// membership decides taken/not-taken.
func InBlock(i Inst, block string) Inst {
	i.Block = block
	return i
}
