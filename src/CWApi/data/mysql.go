package data

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/openhalls/campuswatch/src/CWApi/types"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate keeps the schema in step with the model structs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Post{},
		&types.PostReaction{},
		&types.Poll{},
		&types.PollOption{},
		&types.PollVote{},
		&types.Issue{},
		&types.Evidence{},
		&types.Banner{},
		&types.Submission{},
		&types.AdminUser{},
		&types.AuditLog{},
		&types.Setting{},
	)
}
