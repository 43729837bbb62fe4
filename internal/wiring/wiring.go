// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/resgraph/internal/adapters/archive"
	_ "go.trai.ch/resgraph/internal/adapters/config"
	_ "go.trai.ch/resgraph/internal/adapters/logger"
	_ "go.trai.ch/resgraph/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/resgraph/internal/app"
)
