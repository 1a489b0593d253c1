package model

import "time"

type User struct {
	BaseModel
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	PhoneNo           string     `db:"phone_no" json:"phone_no"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	ResetToken        *string    `db:"reset_token" json:"-"`
	ResetTokenExpires *time.Time `db:"reset_token_expires" json:"-"`
}
