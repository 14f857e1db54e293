package types

import "time"

// Post lifecycle states. A post is created as approved or pending depending on
// the moderation verdict; rejected is reachable only through admin action.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Reaction kinds. Each post carries one independent counter per kind.
const (
	ReactionLike  = "like"
	ReactionLol   = "lol"
	ReactionAngry = "angry"
)

// Posts (news feed entries and replies)
type Post struct {
	ID         uint64  `gorm:"primaryKey"`
	ThreadID   uint64  `gorm:"index"` // root post id shared by all descendants
	ParentID   *uint64 `gorm:"index"` // nil for root posts
	Alias      string  `gorm:"size:30;not null"`
	Body       string  `gorm:"type:text;not null"`
	Status     string  `gorm:"size:16;index;not null;default:pending"`
	FlagReason string  `gorm:"size:255"`
	LikeCount  uint32  `gorm:"default:0"`
	LolCount   uint32  `gorm:"default:0"`
	AngryCount uint32  `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// One row per (post, kind, identity); the composite key is the at-most-once guard.
type PostReaction struct {
	PostID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	Kind      string `gorm:"primaryKey;size:8"`
	Identity  string `gorm:"primaryKey;size:64"` // user id or anonymous fingerprint
	CreatedAt time.Time
}

// Polls
type Poll struct {
	ID        uint64 `gorm:"primaryKey"`
	Question  string `gorm:"size:255;not null"`
	Active    bool   `gorm:"default:true"`
	EndsAt    *time.Time
	CreatedAt time.Time
}

type PollOption struct {
	ID        uint64 `gorm:"primaryKey"`
	PollID    uint64 `gorm:"index;not null"`
	Idx       int    `gorm:"not null"` // position within the poll
	Label     string `gorm:"size:128;not null"`
	VoteCount uint32 `gorm:"default:0"`
}

// One row per (poll, identity); a second vote by the same identity is refused.
type PollVote struct {
	PollID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	Identity  string `gorm:"primaryKey;size:64"`
	OptionIdx int    `gorm:"not null"`
	CreatedAt time.Time
}

// Accountability issues
const (
	IssueOpen          = "open"
	IssueInvestigating = "investigating"
	IssueResolved      = "resolved"
	IssueDismissed     = "dismissed"
)

type Issue struct {
	ID            uint64 `gorm:"primaryKey"`
	Title         string `gorm:"size:255;not null"`
	Body          string `gorm:"type:text;not null"`
	Category      string `gorm:"size:32"`
	Status        string `gorm:"size:16;index;not null;default:open"`
	ReporterAlias string `gorm:"size:30"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Evidence rows point at files already uploaded to object storage; only the
// URL and descriptive metadata live here.
type Evidence struct {
	ID          uint64 `gorm:"primaryKey"`
	IssueID     uint64 `gorm:"index;not null"`
	FileURL     string `gorm:"size:512;not null"`
	ContentType string `gorm:"size:64"`
	Caption     string `gorm:"size:255"`
	Fingerprint string `gorm:"size:64"`
	CreatedAt   time.Time
}

// Site banners
type Banner struct {
	ID        uint64 `gorm:"primaryKey"`
	Message   string `gorm:"size:512;not null"`
	Severity  string `gorm:"size:16;default:info"` // info, warning, alert
	StartsAt  *time.Time
	EndsAt    *time.Time
	Active    bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Anonymous tip submissions
type Submission struct {
	ID          string `gorm:"primaryKey;size:36"` // uuid
	Body        string `gorm:"type:text;not null"`
	Contact     string `gorm:"size:255"`
	Fingerprint string `gorm:"size:64;index"`
	Status      string `gorm:"size:16;index;not null;default:new"`
	CreatedAt   time.Time
}

// Admins
type AdminUser struct {
	ID           uint32 `gorm:"primaryKey"`
	Username     string `gorm:"size:64;unique;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	DisplayName  string `gorm:"size:64"`
	CreatedAt    time.Time
}

type AuditLog struct {
	ID        uint64 `gorm:"primaryKey"`
	Actor     string `gorm:"size:64;not null"`
	Action    string `gorm:"size:64;not null"`
	Subject   string `gorm:"size:128"`
	Detail    string `gorm:"type:text"`
	CreatedAt time.Time
}

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}
