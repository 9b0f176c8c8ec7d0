// Command api runs the onboarding system HTTP API.
//
//	@title						Onboarding System API
//	@version					1.0
//	@description				Employee onboarding: registration, login, profile and onboarding checklist.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/99minutos/onboarding-system/internal/app"
	"github.com/99minutos/onboarding-system/internal/pkg/config"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}
}
