package main

import (
	"context"

	"github.com/signdesk/signdesk/internal/client/cli"
	"github.com/signdesk/signdesk/internal/client/config"
)

func main() {

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(context.Background())
}
