package model

type Lesson struct {
	BaseModel
	SubjectID     uint          `gorm:"index;not null" json:"subjectId"`
	Subject       *Subject      `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Name          string        `gorm:"size:128;not null" json:"name"`
	Text          string        `gorm:"type:text" json:"text"`
	VideoURL      string        `gorm:"size:255" json:"videoUrl"`
	VideoDuration float64       `gorm:"default:0" json:"videoDuration"` // seconds, probed on upload
	TestID        *uint         `gorm:"index" json:"testId"`
	Test          *Test         `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Photos        []LessonPhoto `gorm:"many2many:lesson_photos_ref" json:"photos,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type LessonPhoto struct {
	BaseModel
	OwnerID uint   `gorm:"index;not null" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name    string `gorm:"size:128;not null" json:"name"`
	URL     string `gorm:"size:255;not null" json:"url"`
}

func (LessonPhoto) TableName() string {
	return "lesson_photos"
}
