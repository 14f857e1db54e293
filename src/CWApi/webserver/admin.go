package webserver

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/types"
)

type Admin struct {
	db *gorm.DB
}

func NewAdmin(db *gorm.DB) Admin {
	return Admin{db: db}
}

// audit appends one AuditLog row per admin mutation. Best effort: a failed
// audit write never rolls back the action it describes.
func (a Admin) audit(c *gin.Context, action, subject, detail string) {
	actor := c.GetString("admin")
	_ = a.db.Create(&types.AuditLog{
		Actor:     actor,
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		CreatedAt: time.Now(),
	}).Error
	log.Printf("Admin %s: %s %s %s", actor, action, subject, detail)
}

// SetPostStatus drives the only legal post transitions after creation:
// pending -> approved or pending -> rejected.
func (a Admin) SetPostStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad post id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=approved rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var post types.Post
	if err := a.db.First(&post, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "post not found"})
		return
	}
	if post.Status != types.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"err": "only pending posts can be moderated"})
		return
	}

	if err := a.db.Model(&types.Post{}).Where("id = ?", id).
		Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	a.audit(c, "post.status", fmt.Sprintf("post/%d", id), req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a Admin) PendingPosts(c *gin.Context) {
	var posts []types.Post
	a.db.Where("status = ?", types.StatusPending).Order("created_at asc").Find(&posts)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (a Admin) CreateBanner(c *gin.Context) {
	var req struct {
		Message  string     `json:"message" binding:"required,max=512"`
		Severity string     `json:"severity" binding:"omitempty,oneof=info warning alert"`
		StartsAt *time.Time `json:"startsAt"`
		EndsAt   *time.Time `json:"endsAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if req.Severity == "" {
		req.Severity = "info"
	}

	banner := types.Banner{
		Message:   req.Message,
		Severity:  req.Severity,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := a.db.Create(&banner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	a.audit(c, "banner.create", fmt.Sprintf("banner/%d", banner.ID), req.Message)
	c.JSON(http.StatusCreated, gin.H{"id": banner.ID})
}

func (a Admin) DeleteBanner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad banner id"})
		return
	}

	res := a.db.Model(&types.Banner{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"err": "banner not found"})
		return
	}

	a.audit(c, "banner.deactivate", fmt.Sprintf("banner/%d", id), "")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a Admin) ListSubmissions(c *gin.Context) {
	var subs []types.Submission
	q := a.db.Order("created_at desc").Limit(100)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	q.Find(&subs)
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func (a Admin) SetSubmissionStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required,oneof=new reviewed archived"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	res := a.db.Model(&types.Submission{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"err": "submission not found"})
		return
	}

	a.audit(c, "submission.status", "submission/"+id, req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a Admin) SetIssueStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad issue id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=open investigating resolved dismissed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	res := a.db.Model(&types.Issue{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"err": "issue not found"})
		return
	}

	a.audit(c, "issue.status", fmt.Sprintf("issue/%d", id), req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a Admin) CreatePoll(c *gin.Context) {
	var req struct {
		Question string     `json:"question" binding:"required,max=255"`
		Options  []string   `json:"options" binding:"required,min=2,max=10"`
		EndsAt   *time.Time `json:"endsAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	poll := types.Poll{Question: req.Question, Active: true, EndsAt: req.EndsAt, CreatedAt: time.Now()}
	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}
		for idx, label := range req.Options {
			if err := tx.Create(&types.PollOption{PollID: poll.ID, Idx: idx, Label: label}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	a.audit(c, "poll.create", fmt.Sprintf("poll/%d", poll.ID), req.Question)
	c.JSON(http.StatusCreated, gin.H{"id": poll.ID})
}
