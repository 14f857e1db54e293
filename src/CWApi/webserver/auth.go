package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/types"
)

type Auth struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuth(db *gorm.DB, secret []byte) Auth {
	return Auth{db: db, jwtSecret: secret}
}

// Login authenticates a moderator and returns a session token. Anonymous
// readers and posters never hit this; only the admin surface needs a login.
func (a Auth) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=1,max=64"`
		Password string `json:"password" binding:"required,min=8,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	log.Printf("Admin login attempt for %s from IP %s", req.Username, c.ClientIP())

	var admin types.AdminUser
	if err := a.db.First(&admin, "username = ?", req.Username).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		log.Printf("Failed login for %s", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad credentials"})
		return
	}

	token, err := issueJWT(admin.Username, a.jwtSecret)
	if err != nil {
		log.Printf("Failed to issue JWT for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to create session"})
		return
	}

	log.Printf("Successfully authenticated admin %s", admin.Username)
	c.JSON(http.StatusOK, gin.H{"token": token, "displayName": admin.DisplayName})
}
