// Package usb provides the minimal transfer-level abstractions the
// interception layer is built on: an opaque device handle, a vendor/product
// identity, and the Transport capability that performs bulk/interrupt
// transfers against a handle.
package usb

import (
	"errors"
	"fmt"
	"time"
)

// Handle is an opaque per-connection device identifier assigned by the host
// transport layer. The interception layer never interprets it beyond passing
// it to a Resolver.
type Handle uint32

// Identity identifies a connected peripheral by its USB vendor/product pair.
type Identity struct {
	VendorID  uint16
	ProductID uint16
}

func (i Identity) String() string {
	return fmt.Sprintf("%04x:%04x", i.VendorID, i.ProductID)
}

// ParseIdentity parses a "vid:pid" pair where both halves are plain hex
// (e.g. "1430:0150").
func ParseIdentity(s string) (Identity, error) {
	var vid, pid uint16
	if _, err := fmt.Sscanf(s, "%04x:%04x", &vid, &pid); err != nil {
		return Identity{}, fmt.Errorf("invalid identity %q (want vid:pid hex): %w", s, err)
	}
	return Identity{VendorID: vid, ProductID: pid}, nil
}

// Resolver maps an opaque handle to the identity of the device behind it.
// The second return value is false when the handle is unknown to the host.
type Resolver interface {
	Identify(h Handle) (Identity, bool)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(h Handle) (Identity, bool)

func (f ResolverFunc) Identify(h Handle) (Identity, bool) { return f(h) }

// Transport performs bulk/interrupt transfers against a device handle.
// Read fills p from the device and returns the number of bytes transferred;
// Write sends p to the device. Implementations report short transfers via
// the returned count, errors are transport-level failures.
type Transport interface {
	Read(h Handle, p []byte, timeout time.Duration) (int, error)
	Write(h Handle, p []byte, timeout time.Duration) (int, error)
}

// ErrNoTransport is returned by the null transport and by dispatch paths
// that have no original transfer function to fall back to.
var ErrNoTransport = errors.New("usb: no transport bound")

// NullTransport is a Transport with no device behind it; every transfer
// fails with ErrNoTransport. It stands in for the real transfer functions
// on hosts that have not bound them yet.
type NullTransport struct{}

func (NullTransport) Read(Handle, []byte, time.Duration) (int, error) {
	return 0, ErrNoTransport
}

func (NullTransport) Write(Handle, []byte, time.Duration) (int, error) {
	return 0, ErrNoTransport
}
