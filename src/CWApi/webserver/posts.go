package webserver

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/data"
	"github.com/openhalls/campuswatch/src/CWApi/types"
)

const (
	maxRootBody  = 500
	maxReplyBody = 2000
	maxAlias     = 30
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

type Posts struct {
	db        *gorm.DB
	rdb       *redis.Client
	sanitizer *bluemonday.Policy
}

func NewPosts(db *gorm.DB, rdb *redis.Client) Posts {
	// Strict sanitizer: post bodies are plain text with minimal formatting
	sanitizer := bluemonday.StrictPolicy()
	sanitizer.AllowElements("p", "br", "strong", "em", "code", "blockquote")

	return Posts{db: db, rdb: rdb, sanitizer: sanitizer}
}

// Verdict is the moderation result the composer obtained from the gateway
// before calling us. The recorder never re-judges content.
type Verdict struct {
	ShouldApprove bool   `json:"shouldApprove"`
	FlagReason    string `json:"flagReason,omitempty"`
}

// deriveStatus maps a verdict to the stored status. Set exactly once at
// creation; later transitions are admin-only.
func deriveStatus(v Verdict) string {
	if v.ShouldApprove {
		return types.StatusApproved
	}
	return types.StatusPending
}

func validAlias(alias string) bool {
	return alias != "" && utf8.RuneCountInString(alias) <= maxAlias && aliasPattern.MatchString(alias)
}

func (p Posts) Create(c *gin.Context) {
	var req struct {
		Body     string  `json:"body" binding:"required"`
		Alias    string  `json:"alias" binding:"required"`
		ParentID *uint64 `json:"parentId"`
		Verdict  Verdict `json:"verdict"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	req.Body = strings.TrimSpace(req.Body)
	req.Alias = strings.TrimSpace(req.Alias)

	maxBody := maxRootBody
	if req.ParentID != nil {
		maxBody = maxReplyBody
	}
	if req.Body == "" || utf8.RuneCountInString(req.Body) > maxBody {
		c.JSON(http.StatusBadRequest, gin.H{"err": "body must be between 1 and " + strconv.Itoa(maxBody) + " characters"})
		return
	}
	if !validAlias(req.Alias) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "alias must be 1-30 characters (letters, digits, space, hyphen, underscore)"})
		return
	}

	req.Body = p.sanitizer.Sanitize(req.Body)
	if !utf8.ValidString(req.Body) || strings.TrimSpace(req.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid characters in input"})
		return
	}

	post := types.Post{
		ParentID:   req.ParentID,
		Alias:      req.Alias,
		Body:       req.Body,
		Status:     deriveStatus(req.Verdict),
		FlagReason: req.Verdict.FlagReason,
		CreatedAt:  time.Now(),
	}

	// Single transaction: resolve the thread, insert, and stamp the thread id.
	// Nothing persists if any step fails.
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if req.ParentID != nil {
			var parent types.Post
			if err := tx.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
				return err
			}
			post.ThreadID = parent.ThreadID
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if post.ThreadID == 0 {
			// Root post: the thread is keyed by its own id.
			post.ThreadID = post.ID
			return tx.Model(&types.Post{}).Where("id = ?", post.ID).UpdateColumn("thread_id", post.ID).Error
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"err": "parent post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	if post.Status == types.StatusApproved {
		_ = data.PublishPost(context.Background(), p.rdb, map[string]interface{}{
			"id":     post.ID,
			"thread": post.ThreadID,
			"alias":  post.Alias,
			"body":   post.Body,
			"time":   post.CreatedAt.Unix(),
		})
	}

	resp := gin.H{"id": post.ID, "status": post.Status}
	if post.Status == types.StatusApproved {
		resp["message"] = "Your post is live on the feed"
	} else {
		resp["message"] = "Your post was flagged and sent for review"
		if post.FlagReason != "" {
			resp["flagReason"] = post.FlagReason
		}
	}
	c.JSON(http.StatusCreated, resp)
}

func (p Posts) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	const perPage = 25

	var posts []types.Post
	p.db.Where("status = ? AND parent_id IS NULL", types.StatusApproved).
		Order("created_at desc").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&posts)

	c.JSON(http.StatusOK, gin.H{"page": page, "posts": posts})
}

// Thread returns the root post plus every approved descendant, oldest first.
func (p Posts) Thread(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad post id"})
		return
	}

	var root types.Post
	if err := p.db.First(&root, "id = ? AND status = ?", id, types.StatusApproved).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "post not found"})
		return
	}

	var posts []types.Post
	p.db.Where("thread_id = ? AND status = ?", root.ThreadID, types.StatusApproved).
		Order("created_at asc").
		Find(&posts)

	c.JSON(http.StatusOK, gin.H{"thread": root.ThreadID, "posts": posts})
}
