package service

import (
	"go.uber.org/zap"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
	"studyclass_backend/pkg/logger"
)

// UserStore is the slice of the user repository the account flows need.
type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByRole(role model.UserRole) ([]model.User, error)
	Update(user *model.User) error
	Delete(user *model.User) error
}

// The three stores below are what the account delete cascade reaches
// into: a teacher's tests and photo library, and any user's tries.
type OwnedTestStore interface {
	FindByOwner(ownerID uint) ([]model.Test, error)
	Delete(test *model.Test) error
}

type PhotoLibraryStore interface {
	DeleteByOwner(ownerID uint) error
}

type TryLogStore interface {
	DeleteByUser(userID uint) error
}

// UserService covers the admin-side account management: teachers and
// students, their group links, and the credentials email sent on creation.
type UserService struct {
	Users  UserStore
	Groups *GroupService
	Tests  OwnedTestStore
	Photos PhotoLibraryStore
	Tries  TryLogStore
	Mailer Mailer
}

func NewUserService(users UserStore, groups *GroupService, tests OwnedTestStore,
	photos PhotoLibraryStore, tries TryLogStore, mailer Mailer) *UserService {
	return &UserService{Users: users, Groups: groups, Tests: tests, Photos: photos, Tries: tries, Mailer: mailer}
}

type CreateUserRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	MiddleName string `json:"middleName"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	GroupID    *uint  `json:"groupId"`
}

type UpdateUserRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	MiddleName string `json:"middleName"`
	Email      string `json:"email" binding:"required,email"`
	GroupID    *uint  `json:"groupId"`
}

func (s *UserService) List(role model.UserRole) ([]model.User, error) {
	return s.Users.FindByRole(role)
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	return user, nil
}

// Create makes a teacher or student account, links the group if one was
// picked and emails the credentials. A failed email is logged and reported
// as a warning, never rolled back.
func (s *UserService) Create(role model.UserRole, req CreateUserRequest) (*model.User, []string, error) {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Email:      req.Email,
		Password:   hashed,
		Role:       role,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, nil, err
	}

	var warnings []string
	if req.GroupID != nil {
		if w, err := s.linkGroup(user, *req.GroupID); err != nil {
			return nil, nil, err
		} else if w != "" {
			warnings = append(warnings, w)
		}
	}

	if err := s.Mailer.SendCredentials(user.FullName(), user.Email, req.Password); err != nil {
		logger.Log.Warn("could not send credentials email",
			zap.String("email", user.Email), zap.Error(err))
		warnings = append(warnings, "could not send the credentials email")
	}

	return user, warnings, nil
}

// Update edits the account fields, then applies the group change with the
// lenient policy: a conflicting teacher/group link is skipped and surfaced
// while the field edits stay committed.
func (s *UserService) Update(id uint, req UpdateUserRequest) (*model.User, []string, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, nil, util.ErrNotFound
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.MiddleName = req.MiddleName
	user.Email = req.Email
	if err := s.Users.Update(user); err != nil {
		return nil, nil, err
	}

	var warnings []string
	switch user.Role {
	case model.Teacher:
		if req.GroupID != nil {
			w, err := s.Groups.AssignOwner(*req.GroupID, user.ID, AssignLenient)
			if err != nil {
				return nil, nil, err
			}
			if w != "" {
				warnings = append(warnings, w)
			}
		}
	case model.Student:
		if err := s.Groups.AssignStudent(user.ID, req.GroupID); err != nil {
			return nil, nil, err
		}
	}

	return user, warnings, nil
}

// Delete removes the account together with everything the user owns:
// teachers lose their tests (tries included) and photo library, students
// their recorded tries. The owned group survives without an owner.
func (s *UserService) Delete(id uint) error {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return util.ErrNotFound
	}

	switch user.Role {
	case model.Teacher:
		if group, err := s.Groups.OwnedBy(user.ID); err != nil {
			return err
		} else if group != nil {
			group.OwnerID = nil
			group.Owner = nil
			if err := s.Groups.Groups.Save(group); err != nil {
				return err
			}
		}
		tests, err := s.Tests.FindByOwner(user.ID)
		if err != nil {
			return err
		}
		for i := range tests {
			if err := s.Tests.Delete(&tests[i]); err != nil {
				return err
			}
		}
		if err := s.Photos.DeleteByOwner(user.ID); err != nil {
			return err
		}
	case model.Student:
		if err := s.Groups.AssignStudent(user.ID, nil); err != nil {
			return err
		}
	}

	if err := s.Tries.DeleteByUser(user.ID); err != nil {
		return err
	}
	return s.Users.Delete(user)
}

// linkGroup attaches a freshly created account to a group according to its
// role.
func (s *UserService) linkGroup(user *model.User, groupID uint) (string, error) {
	switch user.Role {
	case model.Teacher:
		return s.Groups.AssignOwner(groupID, user.ID, AssignLenient)
	case model.Student:
		return "", s.Groups.AssignStudent(user.ID, &groupID)
	}
	return "", nil
}

type ProfileUpdateRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	MiddleName string `json:"middleName"`
	Email      string `json:"email" binding:"required,email"`
}

// UpdateProfile is the self-service profile edit. A duplicate email is a
// validation failure, the rest of the profile is left untouched.
func (s *UserService) UpdateProfile(id uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}

	if existing, err := s.Users.FindByEmail(req.Email); err == nil && existing.ID != user.ID {
		return nil, &util.ValidationError{Field: "email", Reason: "already in use"}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.MiddleName = req.MiddleName
	user.Email = req.Email
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
