package model

import "strings"

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

type User struct {
	BaseModel
	FirstName  string   `gorm:"size:32;not null" json:"firstName"`
	LastName   string   `gorm:"size:32;not null" json:"lastName"`
	MiddleName string   `gorm:"size:32" json:"middleName"`
	Email      string   `gorm:"size:100;unique;not null" json:"email"`
	Password   string   `gorm:"size:100;not null" json:"-"`
	Role       UserRole `gorm:"type:enum('student','teacher','admin');default:'student'" json:"role"`
	Disabled   bool     `gorm:"default:false" json:"disabled"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	parts := []string{u.LastName, u.FirstName, u.MiddleName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
