// Package dump owns the emulated figure's byte payload: loading it from
// disk, fabricating a recognizable default, persisting it, and serializing
// concurrent access from the interception dispatcher.
package dump

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	// MaxSize is the upper bound on a dump, enforced by both the load and
	// write paths.
	MaxSize = 8192

	// Default dump geometry: a fixed-size fill with a marker byte at
	// offset 0 so the game's validation sees a minimally well-formed
	// figure image.
	DefaultSize   = 512
	defaultFill   = 0xAA
	defaultMarker = 0x53
)

var (
	ErrNotFound = errors.New("dump: file not found")
	ErrTooLarge = fmt.Errorf("dump: file exceeds %d bytes", MaxSize)
	ErrEmpty    = errors.New("dump: empty buffer")
)

// Buffer is the owned, bounds-checked container for the figure payload.
// Its length is the dump size; it never exceeds MaxSize.
type Buffer struct {
	data []byte
}

// NewBuffer returns a zero-filled buffer of the given size.
func NewBuffer(size int) (*Buffer, error) {
	if size < 1 || size > MaxSize {
		return nil, fmt.Errorf("dump: invalid buffer size %d", size)
	}
	return &Buffer{data: make([]byte, size)}, nil
}

// CreateDefault returns the deterministic fallback dump: DefaultSize bytes
// of fill with the marker at offset 0. Two calls yield identical contents.
func CreateDefault() *Buffer {
	b := &Buffer{data: make([]byte, DefaultSize)}
	for i := range b.data {
		b.data[i] = defaultFill
	}
	b.data[0] = defaultMarker
	return b
}

func (b *Buffer) Size() int { return len(b.data) }

// Bytes returns a copy of the payload.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Load reads a dump file. Files larger than MaxSize are rejected outright
// rather than truncated.
func Load(path string) (*Buffer, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("dump: stat %s: %w", path, err)
	}
	if fi.Size() > MaxSize {
		return nil, ErrTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dump: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return &Buffer{data: data}, nil
}

// Save writes exactly the buffer's size bytes to path, creating parent
// directories as needed.
func Save(b *Buffer, path string) error {
	if b == nil || len(b.data) == 0 {
		return ErrEmpty
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dump: create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, b.data, 0o644); err != nil {
		return fmt.Errorf("dump: write %s: %w", path, err)
	}
	return nil
}

// Store serializes all access to the in-memory buffer and its persistence.
// One mutex guards both so a write's file I/O is ordered against the next
// concurrent transfer; that latency is an accepted backpressure point.
type Store struct {
	mu     sync.Mutex
	path   string
	buf    *Buffer
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// LoadOrCreate loads the dump from disk, falling back to the deterministic
// default on any load failure. The fallback is persisted immediately so
// later starts see consistent state. Load failures are recovered here and
// never surface to the caller.
func (s *Store) LoadOrCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, err := Load(s.path)
	if err == nil {
		s.buf = buf
		s.logger.Info("dump loaded", "path", s.path, "size", buf.Size())
		return
	}
	s.logger.Warn("dump load failed, using default", "path", s.path, "error", err)
	s.buf = CreateDefault()
	if err := Save(s.buf, s.path); err != nil {
		s.logger.Error("failed to persist default dump", "path", s.path, "error", err)
	}
}

// Fill serves an emulated read: it copies up to the dump size into out and
// zero-fills the remainder. With no buffer loaded the whole of out is
// zeroed, a blank response rather than an error. Returns len(out).
func (s *Store) Fill(out []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	if s.buf != nil {
		n = copy(out, s.buf.data)
	}
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	return len(out)
}

// Commit serves an emulated write: the first write allocates a zero-filled
// buffer at full capacity, then in copies over the buffer head (the figure
// protocol gives no offset, every write rewrites from offset 0) and the
// result is persisted synchronously. The returned count is the bytes
// copied in memory; a non-nil error means persistence failed but the
// in-memory mutation is retained, so memory and disk diverge until the
// next successful save.
func (s *Store) Commit(in []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf == nil {
		s.buf = &Buffer{data: make([]byte, MaxSize)}
	}
	n := copy(s.buf.data, in)
	if err := Save(s.buf, s.path); err != nil {
		return n, err
	}
	return n, nil
}

// Flush persists the current buffer if one is present.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return nil
	}
	return Save(s.buf, s.path)
}

// Release drops the in-memory buffer. The file on disk is untouched.
func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
}

// Reset replaces the buffer with the default dump and persists it.
func (s *Store) Reset() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = CreateDefault()
	if err := Save(s.buf, s.path); err != nil {
		return s.buf.Size(), err
	}
	return s.buf.Size(), nil
}

// Info reports presence, size and a content digest of the in-memory buffer.
func (s *Store) Info() (present bool, size int, digest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return false, 0, ""
	}
	sum := sha256.Sum256(s.buf.data)
	return true, s.buf.Size(), hex.EncodeToString(sum[:])
}
