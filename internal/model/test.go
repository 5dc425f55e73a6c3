package model

type QuestionType string

const (
	QuestionText   QuestionType = "text"
	QuestionChoice QuestionType = "choice"
)

// Test is an assessable collection of questions owned by one teacher.
// Questions (and transitively answers) belong exclusively to their test;
// deleting a test cascades to both.
type Test struct {
	BaseModel
	OwnerID   uint       `gorm:"index;not null" json:"ownerId"`
	Owner     *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name      string     `gorm:"size:128;not null" json:"name"`
	Questions []Question `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

type Question struct {
	BaseModel
	TestID  uint         `gorm:"index;not null" json:"testId"`
	Type    QuestionType `gorm:"type:enum('text','choice');not null" json:"type"`
	Text    string       `gorm:"size:256;not null" json:"text"`
	Answers []Answer     `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Answer holds one choice option, or the single canonical answer of a
// text question.
type Answer struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Correct    bool   `gorm:"default:false" json:"correct"`
	Text       string `gorm:"size:256;not null" json:"text"`
}

func (Answer) TableName() string {
	return "answers"
}

// Try is one scored attempt by a student at a test. Rows are append-only:
// nothing in the application updates or deletes them.
type Try struct {
	BaseModel
	UserID uint    `gorm:"index;not null" json:"userId"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TestID uint    `gorm:"index;not null" json:"testId"`
	Test   *Test   `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Score  float64 `gorm:"not null" json:"score"`
}

func (Try) TableName() string {
	return "tries"
}
