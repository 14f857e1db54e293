package webserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/types"
)

var errAlreadyVoted = errors.New("already voted")

type Polls struct{ db *gorm.DB }

func NewPolls(db *gorm.DB) Polls { return Polls{db: db} }

// Vote is the poll counterpart of the reaction safeguard: one vote per
// identity per poll, duplicates reported as success=false.
func (p Polls) Vote(c *gin.Context) {
	var req struct {
		PollID      uint64 `json:"pollId" binding:"required"`
		OptionIndex *int   `json:"optionIndex" binding:"required"`
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

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var poll types.Poll
		if err := tx.First(&poll, "id = ? AND active = ?", req.PollID, true).Error; err != nil {
			return err
		}
		if poll.EndsAt != nil && poll.EndsAt.Before(time.Now()) {
			return gorm.ErrRecordNotFound
		}

		var option types.PollOption
		if err := tx.First(&option, "poll_id = ? AND idx = ?", req.PollID, *req.OptionIndex).Error; err != nil {
			return err
		}

		var existing types.PollVote
		err := tx.First(&existing, "poll_id = ? AND identity = ?", req.PollID, ident).Error
		if err == nil {
			return errAlreadyVoted
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(&types.PollVote{
			PollID:    req.PollID,
			Identity:  ident,
			OptionIdx: *req.OptionIndex,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		return tx.Model(&types.PollOption{}).
			Where("poll_id = ? AND idx = ?", req.PollID, *req.OptionIndex).
			UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error
	})

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, errAlreadyVoted):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "already voted"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "poll or option not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}

func (p Polls) List(c *gin.Context) {
	var polls []types.Poll
	p.db.Where("active = ?", true).Order("created_at desc").Find(&polls)

	out := make([]gin.H, 0, len(polls))
	for _, poll := range polls {
		var options []types.PollOption
		p.db.Where("poll_id = ?", poll.ID).Order("idx asc").Find(&options)
		out = append(out, gin.H{
			"id":       poll.ID,
			"question": poll.Question,
			"endsAt":   poll.EndsAt,
			"options":  options,
		})
	}

	c.JSON(http.StatusOK, gin.H{"polls": out})
}
