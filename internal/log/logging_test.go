package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestTransferLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	tl := NewTransfer(&buf)

	tl.Log(false, true, []byte{0xaa, 0x53, 0x00})
	line := buf.String()
	assert.Contains(t, line, "IN ")
	assert.Contains(t, line, "emu")
	assert.Contains(t, line, "3 bytes: aa 53 00")

	buf.Reset()
	tl.Log(true, false, []byte{0x01})
	assert.Contains(t, buf.String(), "OUT")
	assert.Contains(t, buf.String(), "real")
}

func TestTransferLoggerNilWriterAndEmptyData(t *testing.T) {
	tl := NewTransfer(nil)
	tl.Log(true, true, []byte{1, 2, 3})

	var buf bytes.Buffer
	NewTransfer(&buf).Log(false, false, nil)
	assert.Zero(t, buf.Len())
}
