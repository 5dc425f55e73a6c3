package service

import (
	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
)

// GroupStore is the slice of the group repository the enforcement rules
// need. Narrow on purpose so the rules can be tested against an in-memory
// store.
type GroupStore interface {
	FindByID(id uint) (*model.Group, error)
	FindByOwner(ownerID uint) (*model.Group, error)
	FindByStudent(studentID uint) (*model.Group, error)
	Create(group *model.Group) error
	Save(group *model.Group) error
	Delete(group *model.Group) error
	MoveStudent(student *model.User, from, to *model.Group) error
}

type GroupUserStore interface {
	FindByID(id uint) (*model.User, error)
}

// GroupService owns every mutation of the group/teacher and group/student
// relations and keeps two invariants: a teacher owns at most one group, a
// student is enrolled in at most one group.
type GroupService struct {
	Groups GroupStore
	Users  GroupUserStore
}

func NewGroupService(groups GroupStore, users GroupUserStore) *GroupService {
	return &GroupService{Groups: groups, Users: users}
}

// resolveOwner checks the one-group-per-teacher rule for a proposed owner.
// Returns the owner to set and, on conflict, the typed conflict error.
// current may be nil (creation) or the group being edited.
func (s *GroupService) resolveOwner(current *model.Group, ownerID uint) (*model.User, error) {
	owner, err := s.Users.FindByID(ownerID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if owner.Role != model.Teacher {
		return nil, &util.ValidationError{Field: "owner", Reason: "user is not a teacher"}
	}

	owned, err := s.Groups.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if owned != nil && (current == nil || owned.ID != current.ID) {
		return nil, &util.OwnershipConflictError{Teacher: owner.FullName(), Group: owned.Name}
	}
	return owner, nil
}

// Create makes a new group, optionally owned. Strict: an ownership
// conflict rejects the whole creation and nothing is persisted. This is
// the path behind both the admin create form and teacher self-service
// group creation.
func (s *GroupService) Create(name string, ownerID *uint) (*model.Group, error) {
	group := &model.Group{Name: name}

	if ownerID != nil {
		owner, err := s.resolveOwner(nil, *ownerID)
		if err != nil {
			return nil, err
		}
		group.OwnerID = &owner.ID
		group.Owner = owner
	}

	if err := s.Groups.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

// Update edits a group. Lenient: when the proposed owner already owns a
// different group, the name change still commits, the ownership stays as
// it was and the conflict comes back as a warning. A nil ownerID clears
// the owner, which always succeeds and is idempotent.
func (s *GroupService) Update(groupID uint, name string, ownerID *uint) (*model.Group, string, error) {
	group, err := s.Groups.FindByID(groupID)
	if err != nil {
		return nil, "", util.ErrNotFound
	}

	group.Name = name

	var warning string
	switch {
	case ownerID == nil:
		group.OwnerID = nil
		group.Owner = nil
	case group.OwnerID != nil && *group.OwnerID == *ownerID:
		// unchanged
	default:
		owner, err := s.resolveOwner(group, *ownerID)
		if err != nil {
			// A bad proposed owner (unknown id, not a teacher, already
			// owning another group) skips only the ownership change; the
			// name edit still commits.
			switch {
			case util.IsOwnershipConflict(err) || util.IsValidation(err):
				warning = err.Error()
			case err == util.ErrNotFound:
				warning = "owner: " + err.Error()
			default:
				return nil, "", err
			}
		} else {
			group.OwnerID = &owner.ID
			group.Owner = owner
		}
	}

	if err := s.Groups.Save(group); err != nil {
		return nil, "", err
	}
	return group, warning, nil
}

// AssignMode selects the failure policy for owner assignment. The two
// call sites intentionally behave differently: teacher self-service and
// admin group creation abort on conflict, the admin edit forms keep their
// other changes and surface the conflict as a warning.
type AssignMode int

const (
	AssignStrict  AssignMode = iota // reject and abort
	AssignLenient                   // skip the conflicting change, warn
)

// AssignOwner makes the teacher the owner of the group. Conflicts are
// either the teacher already owning a different group or the group already
// having a different owner. Re-assigning the current owner is a no-op.
func (s *GroupService) AssignOwner(groupID, teacherID uint, mode AssignMode) (string, error) {
	group, err := s.Groups.FindByID(groupID)
	if err != nil {
		return "", util.ErrNotFound
	}

	if group.OwnerID != nil && *group.OwnerID == teacherID {
		return "", nil
	}

	var conflict error
	if group.OwnerID != nil {
		current, err := s.Users.FindByID(*group.OwnerID)
		if err != nil {
			return "", err
		}
		conflict = &util.OwnershipConflictError{Teacher: current.FullName(), Group: group.Name}
	}

	var owner *model.User
	if conflict == nil {
		owner, conflict = s.resolveOwner(group, teacherID)
	}

	if conflict != nil {
		if util.IsOwnershipConflict(conflict) && mode == AssignLenient {
			return conflict.Error(), nil
		}
		return "", conflict
	}

	group.OwnerID = &owner.ID
	group.Owner = owner
	return "", s.Groups.Save(group)
}

func (s *GroupService) Get(groupID uint) (*model.Group, error) {
	group, err := s.Groups.FindByID(groupID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	return group, nil
}

func (s *GroupService) Delete(groupID uint) error {
	group, err := s.Groups.FindByID(groupID)
	if err != nil {
		return util.ErrNotFound
	}
	return s.Groups.Delete(group)
}

// OwnedBy returns the teacher's group, nil when they have none.
func (s *GroupService) OwnedBy(teacherID uint) (*model.Group, error) {
	return s.Groups.FindByOwner(teacherID)
}

// MemberOf returns the student's group, nil when unassigned.
func (s *GroupService) MemberOf(studentID uint) (*model.Group, error) {
	return s.Groups.FindByStudent(studentID)
}

// AssignStudent moves a student into the given group, or out of any group
// when groupID is nil. Always move semantics: the old membership is
// removed in the same transaction that adds the new one.
func (s *GroupService) AssignStudent(studentID uint, groupID *uint) error {
	student, err := s.Users.FindByID(studentID)
	if err != nil {
		return util.ErrNotFound
	}
	if student.Role != model.Student {
		return &util.ValidationError{Field: "student", Reason: "user is not a student"}
	}

	current, err := s.Groups.FindByStudent(studentID)
	if err != nil {
		return err
	}

	if groupID == nil {
		if current == nil {
			return nil
		}
		return s.Groups.MoveStudent(student, current, nil)
	}

	target, err := s.Groups.FindByID(*groupID)
	if err != nil {
		return util.ErrNotFound
	}
	if current != nil && current.ID == target.ID {
		return nil
	}
	return s.Groups.MoveStudent(student, current, target)
}

// ExcludeStudent drops a student from the teacher's own group.
func (s *GroupService) ExcludeStudent(teacherID, studentID uint) error {
	group, err := s.Groups.FindByOwner(teacherID)
	if err != nil {
		return err
	}
	if group == nil {
		return util.ErrNoOwnGroup
	}

	student, err := s.Users.FindByID(studentID)
	if err != nil {
		return util.ErrNotFound
	}
	return s.Groups.MoveStudent(student, group, nil)
}

// CanTakeTest decides student test-taking eligibility: the student must
// currently be in a group and that group's owner must be the test's owner.
// Everything else is a permission failure, never a score.
func (s *GroupService) CanTakeTest(studentID uint, test *model.Test) error {
	group, err := s.Groups.FindByStudent(studentID)
	if err != nil {
		return err
	}
	if group == nil || group.OwnerID == nil || *group.OwnerID != test.OwnerID {
		return util.ErrPermissionDenied
	}
	return nil
}

// CanSeeSubject gates student access to a subject (and its lessons) by
// group membership.
func (s *GroupService) CanSeeSubject(studentID uint, subject *model.Subject) error {
	group, err := s.Groups.FindByStudent(studentID)
	if err != nil {
		return err
	}
	if group == nil || group.ID != subject.GroupID {
		return util.ErrPermissionDenied
	}
	return nil
}
