package webserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/types"
	"github.com/openhalls/campuswatch/src/shared/identity"
)

var errAlreadyReacted = errors.New("already reacted")

var reactionColumns = map[string]string{
	types.ReactionLike:  "like_count",
	types.ReactionLol:   "lol_count",
	types.ReactionAngry: "angry_count",
}

type Reactions struct{ db *gorm.DB }

func NewReactions(db *gorm.DB) Reactions { return Reactions{db: db} }

// resolveIdentity picks the acting identity for a safeguarded RPC: an
// authenticated user id wins, the anonymous fingerprint is the fallback.
func resolveIdentity(userID, fingerprint string) (string, bool) {
	if userID != "" {
		return "u:" + userID, true
	}
	if fingerprint != "" && identity.ValidFingerprint(fingerprint) {
		return "f:" + fingerprint, true
	}
	return "", false
}

// React implements the atomic "increment unless this identity already reacted
// with this kind" procedure. A duplicate is a non-exceptional outcome:
// 200 with success=false, never a 4xx/5xx.
func (r Reactions) React(c *gin.Context) {
	var req struct {
		PostID      uint64 `json:"postId" binding:"required"`
		Kind        string `json:"kind" binding:"required,oneof=like lol angry"`
		UserID      string `json:"userId"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	ident, ok := resolveIdentity(req.UserID, req.Fingerprint)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"err": "userId or valid fingerprint required"})
		return
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post types.Post
		if err := tx.First(&post, "id = ? AND status = ?", req.PostID, types.StatusApproved).Error; err != nil {
			return err
		}

		var existing types.PostReaction
		err := tx.First(&existing, "post_id = ? AND kind = ? AND identity = ?", req.PostID, req.Kind, ident).Error
		if err == nil {
			return errAlreadyReacted
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(&types.PostReaction{
			PostID:    req.PostID,
			Kind:      req.Kind,
			Identity:  ident,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		col := reactionColumns[req.Kind]
		return tx.Model(&types.Post{}).Where("id = ?", req.PostID).
			UpdateColumn(col, gorm.Expr(col+" + 1")).Error
	})

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, errAlreadyReacted):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "already reacted"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "post not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}
