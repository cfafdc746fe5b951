package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"genopipe/internal/core/ports"
)

const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Logger, error) {
			l := New()
			// The --debug flag is parsed later; GENOPIPE_DEBUG covers the
			// wiring phase itself.
			if os.Getenv("GENOPIPE_DEBUG") != "" {
				l.SetDebug(true)
			}
			return l, nil
		},
	})
}
