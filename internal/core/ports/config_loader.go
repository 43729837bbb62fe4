package ports

import "go.trai.ch/resgraph/internal/core/domain"

// ProjectLoader defines the interface for loading the project description.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProjectLoader interface {
	// Load returns the validated project of path. Path is either the project file
	// itself or a directory from which the project file is searched upwards.
	Load(path string) (*domain.Project, error)
}
