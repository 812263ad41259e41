package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID     string `gorm:"uniqueIndex;not null"     json:"uuid"`
	Name     string `gorm:"not null"                 json:"name"`
	Email    string `gorm:"uniqueIndex;not null"     json:"email"`
	Password string `gorm:"not null"                 json:"-"`
	Role     Role   `gorm:"not null"                 json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID     uint    `gorm:"primaryKey;autoIncrement"  json:"-"`
	UUID   string  `gorm:"uniqueIndex;not null"      json:"uuid"`
	Name   string  `gorm:"not null"                  json:"name"`
	Price  float64 `gorm:"not null;check:price >= 0" json:"price"`
	UserID uint    `gorm:"index;not null"            json:"-"`
	User   User    `gorm:"foreignKey:UserID"         json:"user"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	return nil
}

// Session binds an opaque id, held by the client as a cookie, to a user.
// A session is live only while its row exists and ExpiresAt is in the future.
type Session struct {
	SID       string    `gorm:"column:sid;primaryKey;size:64" json:"-"`
	UserUUID  string    `gorm:"index;not null"     json:"-"`
	ExpiresAt time.Time `gorm:"index;not null"     json:"-"`
	CreatedAt time.Time `json:"-"`
}
