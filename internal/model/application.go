package model

// Application is a signup request from a prospective student. An admin
// reviews it and creates the account; the application itself never becomes
// a user automatically.
type Application struct {
	BaseModel
	Email      string `gorm:"size:100;not null" json:"email"`
	FirstName  string `gorm:"size:32;not null" json:"firstName"`
	LastName   string `gorm:"size:32;not null" json:"lastName"`
	MiddleName string `gorm:"size:32" json:"middleName"`
	GroupID    uint   `gorm:"not null" json:"groupId"` // free-form reference, may not exist
}

func (Application) TableName() string {
	return "applications"
}
