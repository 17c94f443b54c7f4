// Package testing provides shared fakes and helpers for the interception
// tests.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/Battleboy96/sky-hook/usb"
)

// TransferCall records one call into the fake transport.
type TransferCall struct {
	Write  bool
	Handle usb.Handle
	Data   []byte
}

// FakeTransport is a scripted usb.Transport that records every call. Reads
// fill the output buffer with ReadData; both directions return the
// configured error.
type FakeTransport struct {
	mu       sync.Mutex
	calls    []TransferCall
	ReadData []byte
	Err      error
}

func (f *FakeTransport) Read(h usb.Handle, p []byte, timeout time.Duration) (int, error) {
	n := copy(p, f.ReadData)
	f.record(TransferCall{Handle: h, Data: append([]byte(nil), p[:n]...)})
	if f.Err != nil {
		return 0, f.Err
	}
	return n, nil
}

func (f *FakeTransport) Write(h usb.Handle, p []byte, timeout time.Duration) (int, error) {
	f.record(TransferCall{Write: true, Handle: h, Data: append([]byte(nil), p...)})
	if f.Err != nil {
		return 0, f.Err
	}
	return len(p), nil
}

func (f *FakeTransport) record(c TransferCall) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

// Calls returns a snapshot of recorded calls.
func (f *FakeTransport) Calls() []TransferCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TransferCall(nil), f.calls...)
}

// MapResolver resolves handles from a fixed table.
type MapResolver map[usb.Handle]usb.Identity

func (m MapResolver) Identify(h usb.Handle) (usb.Identity, bool) {
	id, ok := m[h]
	return id, ok
}

// ScriptedPoller returns a sequence of button masks, then repeats the last
// one forever. It is safe for concurrent use.
type ScriptedPoller struct {
	mu    sync.Mutex
	masks []uint32
	idx   int
}

func NewScriptedPoller(masks ...uint32) *ScriptedPoller {
	return &ScriptedPoller{masks: masks}
}

func (s *ScriptedPoller) Buttons() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.masks) == 0 {
		return 0, nil
	}
	mask := s.masks[s.idx]
	if s.idx < len(s.masks)-1 {
		s.idx++
	}
	return mask, nil
}

// FailingInstaller always fails Install, for start-up abort tests.
type FailingInstaller struct {
	Err error
}

func (f *FailingInstaller) Install(usb.Transport) (usb.Transport, error) {
	return nil, f.Err
}

func (f *FailingInstaller) Uninstall() error { return nil }

// TempDumpPath returns a dump file path inside a test temp dir.
func TempDumpPath(t *testing.T) string {
	t.Helper()
	return t.TempDir() + "/figure.bin"
}
