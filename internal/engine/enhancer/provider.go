package enhancer

import "go.trai.ch/resgraph/internal/core/domain"

// resourcesProvider exposes the resource directories the packaging stage reads.
type resourcesProvider interface {
	ResDirectories() []domain.SourcePath
	// Owner returns the action producing the directories, if any.
	Owner() (*domain.ActionNode, bool)
}

// filteredProvider serves the directories produced by the resources filter.
type filteredProvider struct {
	node *domain.ActionNode
	dirs []domain.SourcePath
}

func (p filteredProvider) ResDirectories() []domain.SourcePath {
	return p.dirs
}

func (p filteredProvider) Owner() (*domain.ActionNode, bool) {
	return p.node, true
}

// identityProvider serves the raw resource directories unchanged.
type identityProvider struct {
	dirs []domain.SourcePath
}

func (p identityProvider) ResDirectories() []domain.SourcePath {
	return p.dirs
}

func (identityProvider) Owner() (*domain.ActionNode, bool) {
	return nil, false
}
