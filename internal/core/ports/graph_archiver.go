package ports

import (
	"context"

	"go.trai.ch/resgraph/internal/core/domain"
)

// GraphArchiver persists an action graph as a zip of node descriptions.
//
//go:generate mockgen -source=graph_archiver.go -destination=mocks/mock_graph_archiver.go -package=mocks
type GraphArchiver interface {
	// Write stores one entry per node, plus an index entry, at path.
	Write(ctx context.Context, path string, nodes []*domain.ActionNode) error
	// Read returns the node descriptions stored at path, sorted by target.
	Read(path string) ([]domain.ActionDescription, error)
}
