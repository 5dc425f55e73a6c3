package service

import (
	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
)

// SubjectStore is the slice of the subject repository the service needs.
type SubjectStore interface {
	Create(subject *model.Subject) error
	FindByID(id uint) (*model.Subject, error)
	FindAll() ([]model.Subject, error)
	FindByGroup(groupID uint) ([]model.Subject, error)
	FindByGroupOwner(ownerID uint) ([]model.Subject, error)
	Update(subject *model.Subject) error
	Delete(subject *model.Subject) error
}

type SubjectService struct {
	Subjects SubjectStore
	Groups   *GroupService
}

func NewSubjectService(subjects SubjectStore, groups *GroupService) *SubjectService {
	return &SubjectService{Subjects: subjects, Groups: groups}
}

func (s *SubjectService) List() ([]model.Subject, error) {
	return s.Subjects.FindAll()
}

func (s *SubjectService) ListForTeacher(teacherID uint) ([]model.Subject, error) {
	return s.Subjects.FindByGroupOwner(teacherID)
}

func (s *SubjectService) ListForGroup(groupID uint) ([]model.Subject, error) {
	return s.Subjects.FindByGroup(groupID)
}

func (s *SubjectService) Get(id uint) (*model.Subject, error) {
	subject, err := s.Subjects.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	return subject, nil
}

func (s *SubjectService) Create(name string, groupID uint) (*model.Subject, error) {
	if _, err := s.Groups.Get(groupID); err != nil {
		return nil, err
	}
	subject := &model.Subject{Name: name, GroupID: groupID}
	if err := s.Subjects.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// CreateForTeacher scopes the new subject to the teacher's own group.
func (s *SubjectService) CreateForTeacher(teacherID uint, name string) (*model.Subject, error) {
	group, err := s.Groups.OwnedBy(teacherID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, util.ErrNoOwnGroup
	}
	return s.Create(name, group.ID)
}

func (s *SubjectService) Update(id uint, name string, groupID uint) (*model.Subject, error) {
	subject, err := s.Subjects.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if _, err := s.Groups.Get(groupID); err != nil {
		return nil, err
	}
	subject.Name = name
	subject.GroupID = groupID
	subject.Group = nil
	if err := s.Subjects.Update(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Delete(id uint) error {
	subject, err := s.Subjects.FindByID(id)
	if err != nil {
		return util.ErrNotFound
	}
	return s.Subjects.Delete(subject)
}

// OwnedByTeacher reports whether the subject belongs to the teacher's
// group, gating the teacher-side edit routes.
func (s *SubjectService) OwnedByTeacher(teacherID uint, subject *model.Subject) (bool, error) {
	group, err := s.Groups.OwnedBy(teacherID)
	if err != nil {
		return false, err
	}
	return group != nil && group.ID == subject.GroupID, nil
}
