package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/ideabank/internal/server"
	"github.com/dmitrijs2005/ideabank/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
