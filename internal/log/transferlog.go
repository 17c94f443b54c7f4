package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// TransferLogger records individual intercepted transfers with an optional
// file output.
type TransferLogger interface {
	// Log emits one transfer. write=true is host->device, emulated=true
	// means the transfer was served from the dump rather than passed
	// through.
	Log(write bool, emulated bool, data []byte)
}

// transferLogger implements TransferLogger with thread-safe output.
type transferLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewTransfer creates a TransferLogger. A nil writer yields a no-op logger.
func NewTransfer(w io.Writer) TransferLogger {
	return &transferLogger{w: w}
}

func (t *transferLogger) Log(write bool, emulated bool, data []byte) {
	if t.w == nil || len(data) == 0 {
		return
	}

	dir := "IN "
	if write {
		dir = "OUT"
	}
	src := "real"
	if emulated {
		src = "emu"
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s %s %-4s %d bytes: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		dir,
		src,
		len(data),
		hexbuf.String())

	t.mu.Lock()
	_, _ = t.w.Write([]byte(line))
	t.mu.Unlock()
}
