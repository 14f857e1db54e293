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
	"github.com/robfig/cron/v3"

	"github.com/openhalls/campuswatch/src/CWApi/config"
	"github.com/openhalls/campuswatch/src/CWApi/data"
	"github.com/openhalls/campuswatch/src/CWApi/types"
	"github.com/openhalls/campuswatch/src/CWApi/webserver"
)

func main() {
	_ = godotenv.Load()

	// Connect to database first
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "dev:test@tcp(localhost:3306)/campuswatch?parseTime=true"
	}
	db := data.MustMySQL(mysqlDSN)

	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Load config with database-backed settings
	cfg := config.Load(db)
	rdb := data.MustRedis(cfg.RedisURL)

	limiter := webserver.DefaultWriteLimiter()

	// Scheduled sweeps: expired banners go inactive, the write limiter sheds
	// idle identities.
	sched := cron.New()
	_, _ = sched.AddFunc("@hourly", func() {
		res := db.Model(&types.Banner{}).
			Where("active = ? AND ends_at IS NOT NULL AND ends_at < ?", true, time.Now()).
			Update("active", false)
		if res.Error != nil {
			log.Printf("banner sweep: %v", res.Error)
		} else if res.RowsAffected > 0 {
			log.Printf("banner sweep: deactivated %d expired banners", res.RowsAffected)
		}
	})
	_, _ = sched.AddFunc("@every 5m", limiter.Cleanup)
	sched.Start()
	defer sched.Stop()

	router := webserver.New(cfg, db, rdb, limiter)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
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

	log.Printf("CampusWatch API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
