package sink_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resgraph/internal/adapters/sink"
	"go.trai.ch/resgraph/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

func writeEntry(t *testing.T, c *sink.Container, name, content string) *sink.Entry {
	t.Helper()
	e, err := c.Create(name)
	require.NoError(t, err)
	w, err := e.OpenWriter()
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return e
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		assert.True(t, sink.Modified.Equal(f.Modified), "entry %s has a fixed timestamp", f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(content)
	}
	return files
}

func TestContainer_WriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	c := sink.NewContainer(&buf)

	e := writeEntry(t, c, "res/a.json", `{"target":"//res:a"}`)
	assert.Equal(t, "res/a.json", e.Name())
	assert.True(t, e.Finalized())

	r, err := e.OpenReader()
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":"//res:a"}`, string(content))

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, map[string]string{"res/a.json": `{"target":"//res:a"}`}, readArchive(t, buf.Bytes()))
}

func TestEntry_ReadBeforeFinalize(t *testing.T) {
	c := sink.NewContainer(io.Discard)

	e, err := c.Create("pending")
	require.NoError(t, err)

	_, err = e.OpenReader()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEntryNotFinalized.Error())

	w, err := e.OpenWriter()
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	_, err = e.OpenReader()
	require.Error(t, err, "buffered content is invisible until the writer is closed")
	assert.ErrorContains(t, err, domain.ErrEntryNotFinalized.Error())
	assert.False(t, e.Finalized())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.True(t, e.Finalized())

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestEntry_OpenWriterTwice(t *testing.T) {
	c := sink.NewContainer(io.Discard)
	e, err := c.Create("once")
	require.NoError(t, err)

	_, err = e.OpenWriter()
	require.NoError(t, err)

	_, err = e.OpenWriter()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrAlreadyOpened.Error())
}

func TestContainer_DuplicateEntry(t *testing.T) {
	c := sink.NewContainer(io.Discard)
	_, err := c.Create("same")
	require.NoError(t, err)

	_, err = c.Create("same")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDuplicateEntry.Error())
}

func TestContainer_UseAfterClose(t *testing.T) {
	c := sink.NewContainer(io.Discard)

	open, err := c.Create("open")
	require.NoError(t, err)
	w, err := open.OpenWriter()
	require.NoError(t, err)

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))

	_, err = c.Create("late")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrSinkClosed.Error())

	err = w.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrSinkClosed.Error())
	assert.False(t, open.Finalized())
}

func TestContainer_ConcurrentEntries(t *testing.T) {
	var buf bytes.Buffer
	c := sink.NewContainer(&buf)

	const n = 32
	want := make(map[string]string, n)
	for i := range n {
		want[fmt.Sprintf("node-%02d", i)] = fmt.Sprintf("content of node %d", i)
	}

	var g errgroup.Group
	for name, content := range want {
		g.Go(func() error {
			e, err := c.Create(name)
			if err != nil {
				return err
			}
			w, err := e.OpenWriter()
			if err != nil {
				return err
			}
			for _, chunk := range []string{content[:4], content[4:]} {
				if _, err := io.WriteString(w, chunk); err != nil {
					return err
				}
			}
			return w.Close()
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, c.Close(context.Background()))

	assert.Equal(t, want, readArchive(t, buf.Bytes()))
}
