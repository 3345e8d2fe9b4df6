package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	"github.com/smallbiznis/quill/internal/migration"
	"github.com/smallbiznis/quill/internal/observability"
	"github.com/smallbiznis/quill/internal/server"
	"github.com/smallbiznis/quill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP surface and every domain behind it
		server.Module,
	)
	app.Run()
}

// RegisterSnowflake reads the node id from SNOWFLAKE_NODE so replicas do not
// collide; a single instance uses node 1.
func RegisterSnowflake() (*snowflake.Node, error) {
	nodeID := int64(1)
	if raw := os.Getenv("SNOWFLAKE_NODE"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		nodeID = parsed
	}
	return snowflake.NewNode(nodeID)
}
