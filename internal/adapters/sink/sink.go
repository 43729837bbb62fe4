// Package sink stores named artifacts in a single zip stream.
//
// Every entry buffers its content privately while it is written. Closing the
// writer copies the buffer into the shared zip stream; only one entry is
// finalized at a time.
package sink

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// Modified is the timestamp written on every entry so archives are reproducible.
var Modified = time.Date(1985, time.February, 1, 0, 0, 0, 0, time.UTC)

// Container owns the zip stream and the entries created in it.
type Container struct {
	zw *zip.Writer

	// finalize holds the right to write to zw.
	finalize *semaphore.Weighted

	mu      sync.Mutex
	entries map[string]*Entry
	closed  bool
}

// NewContainer creates a container writing its zip stream to w.
func NewContainer(w io.Writer) *Container {
	return &Container{
		zw:       zip.NewWriter(w),
		finalize: semaphore.NewWeighted(1),
		entries:  make(map[string]*Entry),
	}
}

// Create reserves a new entry called name.
func (c *Container) Create(name string) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, zerr.With(domain.ErrSinkClosed, "entry", name)
	}
	if _, ok := c.entries[name]; ok {
		return nil, zerr.With(domain.ErrDuplicateEntry, "entry", name)
	}

	e := &Entry{name: name, container: c}
	c.entries[name] = e
	return e, nil
}

// Close waits for pending finalizations and writes the zip directory.
// Entries still open are not part of the archive.
func (c *Container) Close(ctx context.Context) error {
	if err := c.finalize.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.finalize.Release(1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if err := c.zw.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrSinkWriteFailed.Error())
	}
	return nil
}

func (c *Container) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Entry is one named artifact of a Container.
type Entry struct {
	name      string
	container *Container

	mu        sync.Mutex
	opened    bool
	finalized bool
	data      []byte
}

// Name returns the name of the entry inside the archive.
func (e *Entry) Name() string {
	return e.name
}

// OpenWriter returns the writer of the entry. It can be called once.
// The writer is not safe for concurrent use.
func (e *Entry) OpenWriter() (io.WriteCloser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.opened {
		return nil, zerr.With(domain.ErrAlreadyOpened, "entry", e.name)
	}
	e.opened = true
	return &entryWriter{entry: e}, nil
}

// OpenReader returns the finalized content of the entry.
func (e *Entry) OpenReader() (io.ReadCloser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.finalized {
		return nil, zerr.With(domain.ErrEntryNotFinalized, "entry", e.name)
	}
	return io.NopCloser(bytes.NewReader(e.data)), nil
}

// Finalized reports whether the writer of the entry was closed successfully.
func (e *Entry) Finalized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finalized
}

func (e *Entry) commit(data []byte) error {
	c := e.container
	// The writer has no context; finalization only waits for other finalizations.
	if err := c.finalize.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer c.finalize.Release(1)

	if c.isClosed() {
		return zerr.With(domain.ErrSinkClosed, "entry", e.name)
	}

	w, err := c.zw.CreateHeader(&zip.FileHeader{
		Name:     e.name,
		Method:   zip.Deflate,
		Modified: Modified,
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSinkWriteFailed.Error()), "entry", e.name)
	}
	if _, err := w.Write(data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSinkWriteFailed.Error()), "entry", e.name)
	}

	e.mu.Lock()
	e.data = data
	e.finalized = true
	e.mu.Unlock()
	return nil
}

type entryWriter struct {
	entry  *Entry
	buf    bytes.Buffer
	closed bool
}

func (w *entryWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, zerr.With(domain.ErrSinkClosed, "entry", w.entry.name)
	}
	return w.buf.Write(p)
}

// Close finalizes the entry. Closing twice is a no-op.
func (w *entryWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.entry.commit(w.buf.Bytes())
}
