// Package mocks holds hand-maintained gomock-style doubles for the
// hostapi interfaces, in the shape github.com/golang/mock's mockgen
// would generate from hostapi.Instruction and hostapi.MemoryRegion.
// They are checked in rather than generated because this module has no
// go:generate toolchain step wired up yet.
package mocks

import (
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/oclgrind/aiwc/hostapi"
)

// MockInstruction is a mock of the hostapi.Instruction interface.
type MockInstruction struct {
	ctrl     *gomock.Controller
	recorder *MockInstructionMockRecorder
}

// MockInstructionMockRecorder is the mock recorder for MockInstruction.
type MockInstructionMockRecorder struct {
	mock *MockInstruction
}

// NewMockInstruction creates a new mock instance.
func NewMockInstruction(ctrl *gomock.Controller) *MockInstruction {
	mock := &MockInstruction{ctrl: ctrl}
	mock.recorder = &MockInstructionMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockInstruction) EXPECT() *MockInstructionMockRecorder {
	return m.recorder
}

func (m *MockInstruction) Opcode() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Opcode")
	return ret[0].(string)
}

func (mr *MockInstructionMockRecorder) Opcode() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Opcode", reflect.TypeOf((*MockInstruction)(nil).Opcode))
}

func (m *MockInstruction) OperandCount() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OperandCount")
	return ret[0].(int)
}

func (mr *MockInstructionMockRecorder) OperandCount() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OperandCount", reflect.TypeOf((*MockInstruction)(nil).OperandCount))
}

func (m *MockInstruction) IsLabelOperand(i int) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsLabelOperand", i)
	return ret[0].(bool)
}

func (mr *MockInstructionMockRecorder) IsLabelOperand(i interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsLabelOperand", reflect.TypeOf((*MockInstruction)(nil).IsLabelOperand), i)
}

func (m *MockInstruction) OperandLabel(i int) string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OperandLabel", i)
	return ret[0].(string)
}

func (mr *MockInstructionMockRecorder) OperandLabel(i interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OperandLabel", reflect.TypeOf((*MockInstruction)(nil).OperandLabel), i)
}

func (m *MockInstruction) ParentBlockLabel() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ParentBlockLabel")
	return ret[0].(string)
}

func (mr *MockInstructionMockRecorder) ParentBlockLabel() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ParentBlockLabel", reflect.TypeOf((*MockInstruction)(nil).ParentBlockLabel))
}

func (m *MockInstruction) PointerOperandName() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PointerOperandName")
	return ret[0].(string)
}

func (mr *MockInstructionMockRecorder) PointerOperandName() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PointerOperandName", reflect.TypeOf((*MockInstruction)(nil).PointerOperandName))
}

func (m *MockInstruction) PointerAddressSpace() hostapi.AddressSpace {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PointerAddressSpace")
	return ret[0].(hostapi.AddressSpace)
}

func (mr *MockInstructionMockRecorder) PointerAddressSpace() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PointerAddressSpace", reflect.TypeOf((*MockInstruction)(nil).PointerAddressSpace))
}

func (m *MockInstruction) Line() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Line")
	return ret[0].(uint32)
}

func (mr *MockInstructionMockRecorder) Line() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Line", reflect.TypeOf((*MockInstruction)(nil).Line))
}

func (m *MockInstruction) ResultWidth() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResultWidth")
	return ret[0].(uint32)
}

func (mr *MockInstructionMockRecorder) ResultWidth() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResultWidth", reflect.TypeOf((*MockInstruction)(nil).ResultWidth))
}

func (m *MockInstruction) IsConditionalBranch() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsConditionalBranch")
	return ret[0].(bool)
}

func (mr *MockInstructionMockRecorder) IsConditionalBranch() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsConditionalBranch", reflect.TypeOf((*MockInstruction)(nil).IsConditionalBranch))
}

// MockMemoryRegion is a mock of the hostapi.MemoryRegion interface.
type MockMemoryRegion struct {
	ctrl     *gomock.Controller
	recorder *MockMemoryRegionMockRecorder
}

// MockMemoryRegionMockRecorder is the mock recorder for MockMemoryRegion.
type MockMemoryRegionMockRecorder struct {
	mock *MockMemoryRegion
}

// NewMockMemoryRegion creates a new mock instance.
func NewMockMemoryRegion(ctrl *gomock.Controller) *MockMemoryRegion {
	mock := &MockMemoryRegion{ctrl: ctrl}
	mock.recorder = &MockMemoryRegionMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMemoryRegion) EXPECT() *MockMemoryRegionMockRecorder {
	return m.recorder
}

func (m *MockMemoryRegion) AddressSpace() hostapi.AddressSpace {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddressSpace")
	return ret[0].(hostapi.AddressSpace)
}

func (mr *MockMemoryRegionMockRecorder) AddressSpace() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddressSpace", reflect.TypeOf((*MockMemoryRegion)(nil).AddressSpace))
}
