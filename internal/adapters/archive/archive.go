// Package archive stores action graphs as zip files of JSON node descriptions.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/resgraph/internal/adapters/sink"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// IndexEntry is the name of the entry listing every node of the archive.
const IndexEntry = "index.json"

// formatVersion is bumped whenever the entry layout changes.
const formatVersion = 1

// Index is the content of IndexEntry.
type Index struct {
	Version int      `json:"version"`
	Nodes   []string `json:"nodes"`
}

// Archiver implements ports.GraphArchiver on top of a sink.Container.
type Archiver struct {
	workers int
}

var _ ports.GraphArchiver = (*Archiver)(nil)

// NewArchiver creates an Archiver encoding nodes on every CPU.
func NewArchiver() *Archiver {
	return &Archiver{workers: runtime.NumCPU()}
}

// EntryName returns the name of the entry describing target.
func EntryName(target domain.BuildTarget) string {
	return "nodes/" + strings.TrimPrefix(target.String(), "//") + ".json"
}

// Write stores nodes at path, replacing any existing file.
func (a *Archiver) Write(ctx context.Context, path string, nodes []*domain.ActionNode) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveCreateFailed.Error()), "path", path)
	}

	//nolint:gosec // Path is provided by the user on the command line
	f, err := os.Create(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveCreateFailed.Error()), "path", path)
	}

	container := sink.NewContainer(f)
	writeErr := a.writeNodes(ctx, container, nodes)
	closeErr := container.Close(ctx)
	fileErr := f.Close()

	if err := errors.Join(writeErr, closeErr, fileErr); err != nil {
		return zerr.With(err, "path", path)
	}
	return nil
}

func (a *Archiver) writeNodes(ctx context.Context, container *sink.Container, nodes []*domain.ActionNode) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.workers, 1))

	index := Index{Version: formatVersion, Nodes: make([]string, len(nodes))}
	for i, node := range nodes {
		index.Nodes[i] = node.Target().String()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeJSON(container, EntryName(node.Target()), node.Describe())
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return writeJSON(container, IndexEntry, index)
}

func writeJSON(container *sink.Container, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to marshal archive entry"), "entry", name)
	}

	entry, err := container.Create(name)
	if err != nil {
		return err
	}
	w, err := entry.OpenWriter()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrSinkWriteFailed.Error()), "entry", name)
	}
	return w.Close()
}

// Read returns the node descriptions stored at path, in index order.
func (a *Archiver) Read(path string) ([]domain.ActionDescription, error) {
	zr, err := zip.OpenReader(filepath.Clean(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "path", path)
	}
	defer func() { _ = zr.Close() }()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var index Index
	if err := readJSON(files, IndexEntry, &index); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	descriptions := make([]domain.ActionDescription, 0, len(index.Nodes))
	for _, name := range index.Nodes {
		target, err := domain.ParseBuildTarget(name)
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		var d domain.ActionDescription
		if err := readJSON(files, EntryName(target), &d); err != nil {
			return nil, zerr.With(err, "path", path)
		}
		descriptions = append(descriptions, d)
	}
	return descriptions, nil
}

func readJSON(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return zerr.With(zerr.With(domain.ErrArchiveReadFailed, "entry", name), "reason", "entry missing")
	}
	rc, err := f.Open()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "entry", name)
	}
	defer func() { _ = rc.Close() }()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "entry", name)
	}
	return nil
}
