package webserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/config"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, limiter *RateLimiter) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Fingerprint"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(db, []byte(cfg.JWTSecret))
	postsH := NewPosts(db, rdb)
	reactionsH := NewReactions(db)
	pollsH := NewPolls(db)
	issuesH := NewIssues(db)
	bannersH := NewBanners(db)
	subsH := NewSubmissions(db, rdb)

	v1 := r.Group("/v1")
	{
		// Client bootstrap: where to send moderation requests before publishing.
		v1.GET("/config", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"moderationUrl": cfg.ModerationURL})
		})

		v1.GET("/posts", postsH.List)
		v1.GET("/posts/:id/thread", postsH.Thread)
		v1.GET("/polls", pollsH.List)
		v1.GET("/banners", bannersH.Active)
		v1.GET("/issues", issuesH.List)
		v1.GET("/issues/:id", issuesH.Get)

		writes := v1.Group("")
		writes.Use(RateLimitMiddleware(limiter))
		{
			writes.POST("/posts", postsH.Create)
			writes.POST("/reactions", reactionsH.React)
			writes.POST("/polls/vote", pollsH.Vote)
			writes.POST("/issues", issuesH.Create)
			writes.POST("/issues/:id/evidence", issuesH.AttachEvidence)
			writes.POST("/submissions", subsH.Create)
		}

		v1.POST("/admin/login", authH.Login)

		admin := v1.Group("/admin")
		admin.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		{
			adminH := NewAdmin(db)
			admin.GET("/posts/pending", adminH.PendingPosts)
			admin.POST("/posts/:id/status", adminH.SetPostStatus)
			admin.POST("/banners", adminH.CreateBanner)
			admin.DELETE("/banners/:id", adminH.DeleteBanner)
			admin.GET("/submissions", adminH.ListSubmissions)
			admin.POST("/submissions/:id/status", adminH.SetSubmissionStatus)
			admin.POST("/issues/:id/status", adminH.SetIssueStatus)
			admin.POST("/polls", adminH.CreatePoll)
		}
	}
}

// DefaultWriteLimiter covers all anonymous write routes.
func DefaultWriteLimiter() *RateLimiter {
	return NewRateLimiter(30, time.Minute)
}
