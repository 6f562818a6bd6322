package main

import (
	"context"
	"log"
	"os"

	"autoclerk/internal/api"
	"autoclerk/internal/config"
	"autoclerk/internal/gdocs"
	"autoclerk/internal/googleauth"
	"autoclerk/internal/service/ai"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Optional .env next to the binary.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("AUTOCLERK_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	authenticator, err := googleauth.NewAuthenticator(
		cfg.BasicConfig.ClientSecretPath,
		cfg.BasicConfig.TokenCachePath,
		cfg.BasicConfig.CallbackPort,
		googleauth.DocsScopes,
	)
	if err != nil {
		log.Fatalf("init google auth: %v", err)
	}
	token, err := authenticator.Authenticate(ctx)
	if err != nil {
		log.Fatalf("acquire google credentials: %v", err)
	}

	docsSvc, err := gdocs.NewService(ctx, option.WithHTTPClient(authenticator.Client(ctx, token)))
	if err != nil {
		log.Fatalf("init google docs service: %v", err)
	}
	log.Printf("google docs service ready")

	chatModel, err := ai.NewChatModel(ctx, cfg, "", ai.DefaultChatModel, "")
	if err != nil {
		log.Fatalf("init chat model: %v", err)
	}

	handler := api.NewHandler(chatModel, func(ctx context.Context) (api.AgentRunner, error) {
		return ai.NewOrchestrator(ctx, cfg, docsSvc, "", "")
	})

	router := gin.Default()
	router.Use(cors.Default())
	handler.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8000"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
