package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/resgraph/internal/core/ports"
)

// NodeID is the unique identifier for the graph archiver Graft node.
const NodeID graft.ID = "adapter.graph_archiver"

func init() {
	graft.Register(graft.Node[ports.GraphArchiver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GraphArchiver, error) {
			return NewArchiver(), nil
		},
	})
}
