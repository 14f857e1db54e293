package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/openhalls/campuswatch/src/CWMod/moderate"
	"github.com/openhalls/campuswatch/src/shared/ai"
)

func main() {
	_ = godotenv.Load()

	cfg := ai.FactoryConfig{
		Provider:     getenv("MODERATION_PROVIDER", "openai"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		ClaudeKey:    os.Getenv("ANTHROPIC_API_KEY"),
		Model:        os.Getenv("MODERATION_MODEL"),
		SystemPrompt: moderate.SystemPolicy,
	}

	var judge ai.Client
	if cfg.HasCredentials() {
		judge = ai.NewClient(cfg)
	} else {
		log.Printf("Warning: no %s credentials set, all content will be approved", cfg.Provider)
	}

	router := moderate.NewRouter(moderate.NewHandler(judge))

	port := getenv("PORT", "8787")
	httpSrv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("Moderation gateway listening on %s", port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
