package dump_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Battleboy96/sky-hook/internal/dump"
)

func TestCreateDefaultDeterministic(t *testing.T) {
	a := dump.CreateDefault()
	b := dump.CreateDefault()

	require.Equal(t, dump.DefaultSize, a.Size())
	assert.Equal(t, a.Bytes(), b.Bytes())

	data := a.Bytes()
	assert.EqualValues(t, 0x53, data[0])
	for i := 1; i < len(data); i++ {
		if data[i] != 0xAA {
			t.Fatalf("byte %d = %#x, want 0xAA", i, data[i])
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("not found", func(t *testing.T) {
		_, err := dump.Load(filepath.Join(dir, "missing.bin"))
		assert.ErrorIs(t, err, dump.ErrNotFound)
	})

	t.Run("too large never truncated", func(t *testing.T) {
		p := filepath.Join(dir, "big.bin")
		require.NoError(t, os.WriteFile(p, make([]byte, dump.MaxSize+1), 0o644))
		_, err := dump.Load(p)
		assert.ErrorIs(t, err, dump.ErrTooLarge)
	})

	t.Run("empty", func(t *testing.T) {
		p := filepath.Join(dir, "empty.bin")
		require.NoError(t, os.WriteFile(p, nil, 0o644))
		_, err := dump.Load(p)
		assert.ErrorIs(t, err, dump.ErrEmpty)
	})

	t.Run("at capacity", func(t *testing.T) {
		p := filepath.Join(dir, "full.bin")
		require.NoError(t, os.WriteFile(p, make([]byte, dump.MaxSize), 0o644))
		buf, err := dump.Load(p)
		require.NoError(t, err)
		assert.Equal(t, dump.MaxSize, buf.Size())
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "figure.bin")
	original := []byte{0x53, 0x01, 0x02, 0x03, 0xFF}
	require.NoError(t, os.WriteFile(p, original, 0o644))

	buf, err := dump.Load(p)
	require.NoError(t, err)
	require.NoError(t, dump.Save(buf, p))

	after, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestSaveRejectsEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "figure.bin")
	assert.ErrorIs(t, dump.Save(nil, p), dump.ErrEmpty)
}

func TestStoreLoadOrCreatePersistsDefault(t *testing.T) {
	p := filepath.Join(t.TempDir(), "figure.bin")
	s := dump.NewStore(p, slog.Default())
	s.LoadOrCreate()

	onDisk, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, dump.CreateDefault().Bytes(), onDisk)

	present, size, _ := s.Info()
	assert.True(t, present)
	assert.Equal(t, dump.DefaultSize, size)
}

func TestStoreFillPadsWithZeroes(t *testing.T) {
	p := filepath.Join(t.TempDir(), "figure.bin")
	s := dump.NewStore(p, slog.Default())
	s.LoadOrCreate()

	out := make([]byte, 1024)
	for i := range out {
		out[i] = 0xFF // stale caller memory must be overwritten
	}
	n := s.Fill(out)
	assert.Equal(t, 1024, n)
	assert.Equal(t, dump.CreateDefault().Bytes(), out[:dump.DefaultSize])
	assert.Equal(t, make([]byte, 1024-dump.DefaultSize), out[dump.DefaultSize:])
}

func TestStoreFillWithoutBufferIsBlank(t *testing.T) {
	s := dump.NewStore(filepath.Join(t.TempDir(), "figure.bin"), slog.Default())

	out := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	n := s.Fill(out)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0, 0, 0, 0}, out)
}

func TestStoreCommitAllocatesFullCapacity(t *testing.T) {
	p := filepath.Join(t.TempDir(), "figure.bin")
	s := dump.NewStore(p, slog.Default())

	payload := bytes.Repeat([]byte{0x42}, 4096)
	n, err := s.Commit(payload)
	require.NoError(t, err)
	assert.Equal(t, 4096, n)

	present, size, _ := s.Info()
	assert.True(t, present)
	assert.Equal(t, dump.MaxSize, size)

	onDisk, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Len(t, onDisk, dump.MaxSize)
	assert.Equal(t, payload, onDisk[:4096])
	assert.Equal(t, make([]byte, dump.MaxSize-4096), onDisk[4096:])
}

func TestStoreCommitTruncatesAtCapacity(t *testing.T) {
	p := filepath.Join(t.TempDir(), "figure.bin")
	s := dump.NewStore(p, slog.Default())

	payload := bytes.Repeat([]byte{0x42}, dump.MaxSize+500)
	n, err := s.Commit(payload)
	require.NoError(t, err)
	assert.Equal(t, dump.MaxSize, n)

	onDisk, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Len(t, onDisk, dump.MaxSize)
}

func TestStoreCommitPersistFailureKeepsMemory(t *testing.T) {
	// A regular file as the parent directory makes every save fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	p := filepath.Join(blocker, "figure.bin")

	s := dump.NewStore(p, slog.Default())
	n, err := s.Commit([]byte{1, 2, 3})
	assert.Error(t, err)
	assert.Equal(t, 3, n)

	// The in-memory mutation is retained despite the failed save.
	out := make([]byte, 3)
	s.Fill(out)
	assert.Equal(t, []byte{1, 2, 3}, out)
}

func TestStoreResetAndRelease(t *testing.T) {
	p := filepath.Join(t.TempDir(), "figure.bin")
	s := dump.NewStore(p, slog.Default())

	_, err := s.Commit([]byte{9, 9, 9})
	require.NoError(t, err)

	size, err := s.Reset()
	require.NoError(t, err)
	assert.Equal(t, dump.DefaultSize, size)

	onDisk, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, dump.CreateDefault().Bytes(), onDisk)

	s.Release()
	present, _, _ := s.Info()
	assert.False(t, present)
	assert.NoError(t, s.Flush())
}
