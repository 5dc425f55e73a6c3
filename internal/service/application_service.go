package service

import (
	"studyclass_backend/internal/model"
	"studyclass_backend/internal/repository"
	"studyclass_backend/internal/util"
)

// ApplicationService handles the public signup inbox: anyone can apply,
// admins review and turn applications into student accounts by hand.
type ApplicationService struct {
	Applications *repository.ApplicationRepository
	Groups       *GroupService
}

func NewApplicationService(applications *repository.ApplicationRepository, groups *GroupService) *ApplicationService {
	return &ApplicationService{Applications: applications, Groups: groups}
}

type ApplicationRequest struct {
	Email      string `json:"email" binding:"required,email"`
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	MiddleName string `json:"middleName"`
	GroupID    uint   `json:"groupId" binding:"required"`
}

func (s *ApplicationService) Submit(req ApplicationRequest) (*model.Application, error) {
	application := &model.Application{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		GroupID:    req.GroupID,
	}
	if err := s.Applications.Create(application); err != nil {
		return nil, err
	}
	return application, nil
}

func (s *ApplicationService) List() ([]model.Application, error) {
	return s.Applications.FindAll()
}

// Get returns the application plus a warning when the applicant named a
// group that does not exist.
func (s *ApplicationService) Get(id uint) (*model.Application, string, error) {
	application, err := s.Applications.FindByID(id)
	if err != nil {
		return nil, "", util.ErrNotFound
	}

	var warning string
	if _, err := s.Groups.Get(application.GroupID); err != nil {
		warning = "the applicant named a group that does not exist"
	}
	return application, warning, nil
}

func (s *ApplicationService) Delete(id uint) error {
	application, err := s.Applications.FindByID(id)
	if err != nil {
		return util.ErrNotFound
	}
	return s.Applications.Delete(application)
}
