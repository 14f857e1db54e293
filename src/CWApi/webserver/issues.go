package webserver

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/types"
	"github.com/openhalls/campuswatch/src/shared/identity"
)

type Issues struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

func NewIssues(db *gorm.DB) Issues {
	return Issues{db: db, sanitizer: bluemonday.StrictPolicy()}
}

func (i Issues) Create(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required,max=255"`
		Body     string `json:"body" binding:"required"`
		Category string `json:"category" binding:"max=32"`
		Alias    string `json:"alias" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	req.Alias = strings.TrimSpace(req.Alias)

	if req.Title == "" || req.Body == "" || utf8.RuneCountInString(req.Body) > maxReplyBody {
		c.JSON(http.StatusBadRequest, gin.H{"err": "title required, body must be 1-2000 characters"})
		return
	}
	if !validAlias(req.Alias) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "alias must be 1-30 characters (letters, digits, space, hyphen, underscore)"})
		return
	}

	issue := types.Issue{
		Title:         i.sanitizer.Sanitize(req.Title),
		Body:          i.sanitizer.Sanitize(req.Body),
		Category:      req.Category,
		Status:        types.IssueOpen,
		ReporterAlias: req.Alias,
		CreatedAt:     time.Now(),
	}
	if err := i.db.Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": issue.ID, "status": issue.Status})
}

func (i Issues) List(c *gin.Context) {
	var issues []types.Issue
	q := i.db.Order("created_at desc").Limit(50)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	q.Find(&issues)
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

func (i Issues) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad issue id"})
		return
	}

	var issue types.Issue
	if err := i.db.First(&issue, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "issue not found"})
		return
	}

	var evidence []types.Evidence
	i.db.Where("issue_id = ?", issue.ID).Order("created_at asc").Find(&evidence)

	c.JSON(http.StatusOK, gin.H{"issue": issue, "evidence": evidence})
}

// AttachEvidence records the object-storage location of an uploaded file.
// The upload itself happens directly against storage; only metadata lands here.
func (i Issues) AttachEvidence(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad issue id"})
		return
	}

	var req struct {
		FileURL     string `json:"fileUrl" binding:"required,max=512"`
		ContentType string `json:"contentType" binding:"max=64"`
		Caption     string `json:"caption" binding:"max=255"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	u, err := url.Parse(req.FileURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"err": "fileUrl must be an http(s) URL"})
		return
	}
	if req.Fingerprint != "" && !identity.ValidFingerprint(req.Fingerprint) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid fingerprint"})
		return
	}

	var issue types.Issue
	if err := i.db.First(&issue, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "issue not found"})
		return
	}

	ev := types.Evidence{
		IssueID:     issue.ID,
		FileURL:     req.FileURL,
		ContentType: req.ContentType,
		Caption:     i.sanitizer.Sanitize(req.Caption),
		Fingerprint: req.Fingerprint,
		CreatedAt:   time.Now(),
	}
	if err := i.db.Create(&ev).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": ev.ID})
}
