// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "genopipe/internal/adapters/config"
	_ "genopipe/internal/adapters/logger"
	// Register app nodes.
	_ "genopipe/internal/app"
)
