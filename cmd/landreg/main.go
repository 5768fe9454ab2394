package main

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/migration"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/observability"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/server"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
