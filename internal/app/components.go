package app

import "genopipe/internal/core/ports"

// Components contains all the initialized application components.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
}
