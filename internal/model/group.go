package model

// Group is a cohort of students taught by at most one teacher. The
// one-group-per-teacher and one-group-per-student rules are enforced by
// the group service, not by the schema.
type Group struct {
	BaseModel
	Name     string `gorm:"size:128;not null" json:"name"`
	OwnerID  *uint  `gorm:"index" json:"ownerId"`
	Owner    *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Students []User `gorm:"many2many:group_students" json:"students,omitempty"`
}

func (Group) TableName() string {
	return "study_groups"
}

type Subject struct {
	BaseModel
	GroupID uint   `gorm:"index;not null" json:"groupId"`
	Group   *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Name    string `gorm:"size:128;not null" json:"name"`
}

func (Subject) TableName() string {
	return "subjects"
}
