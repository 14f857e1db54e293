package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/types"
)

type Banners struct{ db *gorm.DB }

func NewBanners(db *gorm.DB) Banners { return Banners{db: db} }

// Active returns banners currently inside their display window.
func (b Banners) Active(c *gin.Context) {
	now := time.Now()
	var banners []types.Banner
	b.db.Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("created_at desc").
		Find(&banners)

	c.JSON(http.StatusOK, gin.H{"banners": banners})
}
