// Package hook defines the capability through which the host's transfer
// call sites are redirected to the interception layer. The mechanics of the
// redirection (function patching, import rewriting, a shim library) belong
// to the host integration; this package only fixes the contract: Install
// hands the host an emulated Transport and yields back the original one for
// pass-through, Uninstall restores the call sites.
package hook

import (
	"errors"
	"sync"

	"github.com/Battleboy96/sky-hook/usb"
)

var (
	// ErrInstalled is returned when Install is called on an installer that
	// already has an active redirection.
	ErrInstalled = errors.New("hook: already installed")
	// ErrNotInstalled is returned by Uninstall without a prior Install.
	ErrNotInstalled = errors.New("hook: not installed")
)

// Installer redirects the host's read/write call sites to the given
// emulated transport and returns the original transport to call through on
// pass-through. Uninstall restores the original call sites.
type Installer interface {
	Install(emulated usb.Transport) (original usb.Transport, err error)
	Uninstall() error
}

// Loopback is an in-process Installer for hosts that deliver transfer calls
// directly to this layer rather than through patched call sites. It holds
// the original transport itself and exposes the currently installed
// emulated transport for the host to invoke.
type Loopback struct {
	mu       sync.Mutex
	original usb.Transport
	emulated usb.Transport
}

// NewLoopback returns a Loopback whose pass-through path is original.
// A nil original is replaced by usb.NullTransport.
func NewLoopback(original usb.Transport) *Loopback {
	if original == nil {
		original = usb.NullTransport{}
	}
	return &Loopback{original: original}
}

func (l *Loopback) Install(emulated usb.Transport) (usb.Transport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.emulated != nil {
		return nil, ErrInstalled
	}
	l.emulated = emulated
	return l.original, nil
}

func (l *Loopback) Uninstall() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.emulated == nil {
		return ErrNotInstalled
	}
	l.emulated = nil
	return nil
}

// Transport returns the transport the host should route transfer calls to:
// the emulated one while installed, the original otherwise.
func (l *Loopback) Transport() usb.Transport {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.emulated != nil {
		return l.emulated
	}
	return l.original
}
