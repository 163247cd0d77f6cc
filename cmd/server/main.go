package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/solcraft/internal/server"
	"github.com/dmitrijs2005/solcraft/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("solcraft: %v", err)
	}

	app.Run(ctx)

}
