package webserver

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/data"
	"github.com/openhalls/campuswatch/src/CWApi/types"
	"github.com/openhalls/campuswatch/src/shared/identity"
)

const (
	submissionWindow = 10 * time.Minute
	submissionLimit  = 3
)

type Submissions struct {
	db        *gorm.DB
	rdb       *redis.Client
	sanitizer *bluemonday.Policy
}

func NewSubmissions(db *gorm.DB, rdb *redis.Client) Submissions {
	return Submissions{db: db, rdb: rdb, sanitizer: bluemonday.StrictPolicy()}
}

// Create accepts an anonymous tip. Tips are fingerprint rate-limited against a
// Redis window so a single client cannot flood the triage queue.
func (s Submissions) Create(c *gin.Context) {
	var req struct {
		Body        string `json:"body" binding:"required"`
		Contact     string `json:"contact" binding:"max=255"`
		Fingerprint string `json:"fingerprint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" || utf8.RuneCountInString(req.Body) > maxReplyBody {
		c.JSON(http.StatusBadRequest, gin.H{"err": "body must be 1-2000 characters"})
		return
	}
	if !identity.ValidFingerprint(req.Fingerprint) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid fingerprint"})
		return
	}

	allowed, err := data.AllowWindow(c.Request.Context(), s.rdb, "sub:"+req.Fingerprint, submissionLimit, submissionWindow)
	if err == nil && !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"err": "too many submissions, try again later"})
		return
	}

	sub := types.Submission{
		ID:          uuid.NewString(),
		Body:        s.sanitizer.Sanitize(req.Body),
		Contact:     req.Contact,
		Fingerprint: req.Fingerprint,
		Status:      "new",
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": sub.ID})
}
