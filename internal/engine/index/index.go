// Package index implements the shared, de-duplicating action index.
package index

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Factory builds the node for an identifier on first use.
type Factory func() (*domain.ActionNode, error)

// Index maps build targets to action nodes.
// It is safe for concurrent use; every node it holds is fully constructed.
type Index struct {
	mu    sync.RWMutex
	nodes map[domain.BuildTarget]*domain.ActionNode
	group singleflight.Group
}

// New creates a new empty Index.
func New() *Index {
	return &Index{
		nodes: make(map[domain.BuildTarget]*domain.ActionNode),
	}
}

// LookupOrCreate returns the node registered for id, or builds it with factory.
// Factory runs at most once per id at a time: concurrent callers for the same
// id wait for the in-flight call and share its result. A failed factory leaves
// the index unchanged, so a later call may retry.
func (ix *Index) LookupOrCreate(id domain.BuildTarget, factory Factory) (*domain.ActionNode, error) {
	if node, ok := ix.Get(id); ok {
		return node, nil
	}

	v, err, _ := ix.group.Do(id.String(), func() (any, error) {
		// A previous flight may have finished between Get and Do.
		if node, ok := ix.Get(id); ok {
			return node, nil
		}

		node, err := factory()
		if err != nil {
			return nil, err
		}
		if node == nil || node.Target() != id {
			got := "<nil>"
			if node != nil {
				got = node.Target().String()
			}
			err := zerr.With(domain.ErrIndexConsistency, "target", id.String())
			return nil, zerr.With(err, "factory_target", got)
		}

		ix.mu.Lock()
		defer ix.mu.Unlock()
		if existing, ok := ix.nodes[id]; ok {
			return existing, nil
		}
		ix.nodes[id] = node
		return node, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ActionNode), nil
}

// Register inserts node unconditionally.
// It fails if another node is already registered under the same target.
func (ix *Index) Register(node *domain.ActionNode) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.nodes[node.Target()]; exists {
		return zerr.With(domain.ErrIndexConsistency, "target", node.Target().String())
	}
	ix.nodes[node.Target()] = node
	return nil
}

// Get returns the node registered for id.
func (ix *Index) Get(id domain.BuildTarget) (*domain.ActionNode, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	node, ok := ix.nodes[id]
	return node, ok
}

// Len returns the number of registered nodes.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.nodes)
}

// Nodes returns every registered node, sorted by target.
func (ix *Index) Nodes() []*domain.ActionNode {
	ix.mu.RLock()
	nodes := slices.Collect(maps.Values(ix.nodes))
	ix.mu.RUnlock()

	slices.SortFunc(nodes, func(a, b *domain.ActionNode) int {
		return a.Target().Compare(b.Target())
	})
	return nodes
}

// Fingerprint returns a digest of the registered graph.
// Two indexes with the same fingerprint hold isomorphic graphs: the same
// targets, kinds, edges and outputs.
func (ix *Index) Fingerprint() string {
	h := xxhash.New()
	for _, node := range ix.Nodes() {
		_, _ = h.WriteString(node.Target().String())
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(string(node.Kind()))
		for _, dep := range node.DepTargets() {
			_, _ = h.WriteString("\x01")
			_, _ = h.WriteString(dep.String())
		}
		for _, name := range node.OutputNames() {
			out, _ := node.Output(name)
			_, _ = h.WriteString("\x02")
			_, _ = h.WriteString(string(name))
			_, _ = h.WriteString("=")
			_, _ = h.WriteString(out.Path())
		}
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
