package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/resgraph/internal/adapters/logger"
	"go.trai.ch/resgraph/internal/core/ports"
)

// NodeID is the graft ID of the project loader.
const NodeID graft.ID = "adapter.project_loader"

func init() {
	graft.Register(graft.Node[ports.ProjectLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProjectLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
