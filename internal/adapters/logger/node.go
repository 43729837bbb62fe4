package logger

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/resgraph/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// FormatEnv selects the log format. "json" switches to structured output.
const FormatEnv = "RESGRAPH_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return newFromEnv(), nil
		},
	})
}

func newFromEnv() *Logger {
	l := New()
	if strings.EqualFold(os.Getenv(FormatEnv), "json") {
		l.SetJSON(true)
	}
	return l
}
