package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Username     string             `bson:"username,omitempty" json:"username,omitempty"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Permissions  *Permissions       `bson:"permissions,omitempty" json:"permissions,omitempty"`
	Namespace    string             `bson:"namespace,omitempty" json:"namespace,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Identity is the email for email accounts and the username for legacy ones.
func (u *User) Identity() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized returns a copy without the password hash.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
