//go:build linux

package pad

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Linux joystick API event record (linux/joystick.h):
// struct js_event { __u32 time; __s16 value; __u8 type; __u8 number; }
const (
	jsEventSize   = 8
	jsEventButton = 0x01
	jsEventInit   = 0x80
)

// Joystick polls a /dev/input/jsN device node. The node is opened
// non-blocking; each Buttons call drains the pending event queue and folds
// button events into a held-buttons mask, so callers see level state rather
// than edges.
//
// Button numbers map to mask bits directly (button n -> 1<<n), which for
// the kernel sixaxis driver lines up with the DualShock ordering in
// const.go (0=Select, 1=L3, 2=R3, 3=Start, ...).
type Joystick struct {
	fd   int
	path string
	mask uint32
}

// OpenJoystick opens a joystick device node for polling.
func OpenJoystick(path string) (*Joystick, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open joystick %s: %w", path, err)
	}
	return &Joystick{fd: fd, path: path}, nil
}

// Buttons drains queued events and returns the current held-buttons mask.
func (j *Joystick) Buttons() (uint32, error) {
	buf := make([]byte, jsEventSize*32)
	for {
		n, err := unix.Read(j.fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				return j.mask, nil
			}
			return j.mask, fmt.Errorf("read joystick %s: %w", j.path, err)
		}
		for off := 0; off+jsEventSize <= n; off += jsEventSize {
			value := int16(binary.LittleEndian.Uint16(buf[off+4:]))
			typ := buf[off+6] &^ jsEventInit
			number := buf[off+7]
			if typ != jsEventButton || number >= 32 {
				continue
			}
			bit := uint32(1) << number
			if value != 0 {
				j.mask |= bit
			} else {
				j.mask &^= bit
			}
		}
		if n < len(buf) {
			return j.mask, nil
		}
	}
}

func (j *Joystick) Close() error {
	return unix.Close(j.fd)
}
