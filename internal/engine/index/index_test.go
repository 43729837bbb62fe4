package index_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/engine/index"
	"go.trai.ch/zerr"
)

func newNode(target string, kind domain.RuleKind, deps ...*domain.ActionNode) *domain.ActionNode {
	t := domain.MustParseBuildTarget(target)
	return domain.NewActionNode(domain.ActionSpec{
		Target:  t,
		Kind:    kind,
		Deps:    deps,
		Outputs: map[domain.OutputName]string{domain.OutputDefault: domain.GenPath(t, "%s.out")},
	})
}

func TestIndex_LookupOrCreate(t *testing.T) {
	ix := index.New()
	node := newNode("//res:a", domain.KindAndroidResource)

	calls := 0
	factory := func() (*domain.ActionNode, error) {
		calls++
		return node, nil
	}

	got, err := ix.LookupOrCreate(node.Target(), factory)
	require.NoError(t, err)
	assert.Same(t, node, got)

	got, err = ix.LookupOrCreate(node.Target(), factory)
	require.NoError(t, err)
	assert.Same(t, node, got)
	assert.Equal(t, 1, calls, "factory must not run for a registered id")
}

func TestIndex_LookupOrCreate_FactoryError(t *testing.T) {
	ix := index.New()
	target := domain.MustParseBuildTarget("//res:a")
	factoryErr := errors.New("boom")

	_, err := ix.LookupOrCreate(target, func() (*domain.ActionNode, error) {
		return nil, factoryErr
	})
	require.ErrorIs(t, err, factoryErr)
	assert.Equal(t, 0, ix.Len())

	node := newNode("//res:a", domain.KindAndroidResource)
	got, err := ix.LookupOrCreate(target, func() (*domain.ActionNode, error) {
		return node, nil
	})
	require.NoError(t, err)
	assert.Same(t, node, got)
}

func TestIndex_LookupOrCreate_WrongTarget(t *testing.T) {
	ix := index.New()
	target := domain.MustParseBuildTarget("//res:a")

	_, err := ix.LookupOrCreate(target, func() (*domain.ActionNode, error) {
		return newNode("//res:b", domain.KindAndroidResource), nil
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrIndexConsistency.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "//res:b", zErr.Metadata()["factory_target"])
	assert.Equal(t, 0, ix.Len())
}

func TestIndex_LookupOrCreate_Concurrent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ix := index.New()
		node := newNode("//res:a", domain.KindAndroidResource)
		release := make(chan struct{})

		var calls atomic.Int32
		factory := func() (*domain.ActionNode, error) {
			calls.Add(1)
			<-release
			return node, nil
		}

		const callers = 8
		results := make([]*domain.ActionNode, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Go(func() {
				got, err := ix.LookupOrCreate(node.Target(), factory)
				assert.NoError(t, err)
				results[i] = got
			})
		}

		// Every caller is now parked on the same in-flight factory call.
		synctest.Wait()
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, got := range results {
			assert.Same(t, node, got)
		}
		assert.Equal(t, 1, ix.Len())
	})
}

func TestIndex_Register(t *testing.T) {
	ix := index.New()
	node := newNode("//apps:app#merge_assets", domain.KindMergeAssets)

	require.NoError(t, ix.Register(node))

	err := ix.Register(newNode("//apps:app#merge_assets", domain.KindMergeAssets))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrIndexConsistency.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "//apps:app#merge_assets", zErr.Metadata()["target"])

	got, ok := ix.Get(node.Target())
	require.True(t, ok)
	assert.Same(t, node, got, "the first registration wins")
}

func TestIndex_Nodes(t *testing.T) {
	ix := index.New()
	require.NoError(t, ix.Register(newNode("//z:z", domain.KindGenrule)))
	require.NoError(t, ix.Register(newNode("//a:a", domain.KindGenrule)))
	require.NoError(t, ix.Register(newNode("//m:m", domain.KindGenrule)))

	var targets []string
	for _, n := range ix.Nodes() {
		targets = append(targets, n.Target().String())
	}
	assert.Equal(t, []string{"//a:a", "//m:m", "//z:z"}, targets)
}

func TestIndex_Fingerprint(t *testing.T) {
	build := func(order []string, withEdge bool) *index.Index {
		ix := index.New()
		res := newNode("//res:a", domain.KindAndroidResource)
		var deps []*domain.ActionNode
		if withEdge {
			deps = append(deps, res)
		}
		link := newNode("//apps:app#aapt2_link", domain.KindAapt2Link, deps...)
		nodes := map[string]*domain.ActionNode{"res": res, "link": link}
		for _, name := range order {
			require.NoError(t, ix.Register(nodes[name]))
		}
		return ix
	}

	a := build([]string{"res", "link"}, true)
	b := build([]string{"link", "res"}, true)
	c := build([]string{"res", "link"}, false)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "insertion order must not matter")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint(), "edges are part of the fingerprint")
	assert.Len(t, a.Fingerprint(), 16)
	assert.NotEqual(t, index.New().Fingerprint(), a.Fingerprint())
}
