package main

import (
	"context"
	"log"

	"github.com/danial-baraty/express-todo-api/internal/server"
	"github.com/danial-baraty/express-todo-api/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
