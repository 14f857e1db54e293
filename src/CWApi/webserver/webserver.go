package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/config"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, limiter *RateLimiter) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, limiter)
	return g
}
