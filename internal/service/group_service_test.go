package service

import (
	"errors"
	"testing"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
)

// memGroupStore keeps groups and memberships in maps so the enforcement
// rules can be tested without a database.
type memGroupStore struct {
	nextID  uint
	groups  map[uint]*model.Group
	members map[uint]uint // student id -> group id
}

func newMemGroupStore() *memGroupStore {
	return &memGroupStore{groups: make(map[uint]*model.Group), members: make(map[uint]uint)}
}

var errMissing = errors.New("record not found")

func (m *memGroupStore) FindByID(id uint) (*model.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, errMissing
	}
	return g, nil
}

func (m *memGroupStore) FindByOwner(ownerID uint) (*model.Group, error) {
	for _, g := range m.groups {
		if g.OwnerID != nil && *g.OwnerID == ownerID {
			return g, nil
		}
	}
	return nil, nil
}

func (m *memGroupStore) FindByStudent(studentID uint) (*model.Group, error) {
	id, ok := m.members[studentID]
	if !ok {
		return nil, nil
	}
	return m.groups[id], nil
}

func (m *memGroupStore) Create(group *model.Group) error {
	m.nextID++
	group.ID = m.nextID
	m.groups[group.ID] = group
	return nil
}

func (m *memGroupStore) Save(group *model.Group) error {
	m.groups[group.ID] = group
	return nil
}

func (m *memGroupStore) Delete(group *model.Group) error {
	delete(m.groups, group.ID)
	for student, id := range m.members {
		if id == group.ID {
			delete(m.members, student)
		}
	}
	return nil
}

func (m *memGroupStore) MoveStudent(student *model.User, from, to *model.Group) error {
	delete(m.members, student.ID)
	if to != nil {
		m.members[student.ID] = to.ID
	}
	return nil
}

type memUserStore struct {
	users map[uint]*model.User
}

func (m *memUserStore) FindByID(id uint) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errMissing
	}
	return u, nil
}

// fixture wires a service over in-memory stores with two teachers and two
// students.
func fixture(t *testing.T) *GroupService {
	t.Helper()

	users := &memUserStore{users: make(map[uint]*model.User)}
	addUser := func(id uint, role model.UserRole, last string) {
		u := &model.User{LastName: last, Role: role}
		u.ID = id
		users.users[id] = u
	}
	addUser(1, model.Teacher, "Ivanov")
	addUser(2, model.Teacher, "Petrov")
	addUser(3, model.Student, "Sidorov")
	addUser(4, model.Student, "Smirnov")
	addUser(5, model.Admin, "Root")

	return NewGroupService(newMemGroupStore(), users)
}

func mustCreate(t *testing.T, s *GroupService, name string, ownerID *uint) *model.Group {
	t.Helper()
	g, err := s.Create(name, ownerID)
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	return g
}

func uintPtr(v uint) *uint { return &v }

func TestCreateRejectsSecondGroupForTeacher(t *testing.T) {
	s := fixture(t)
	mustCreate(t, s, "A-1", uintPtr(1))

	_, err := s.Create("A-2", uintPtr(1))
	if !util.IsOwnershipConflict(err) {
		t.Fatalf("want ownership conflict, got %v", err)
	}

	// Nothing was persisted for the rejected creation.
	if _, err := s.Groups.FindByID(2); err == nil {
		t.Fatal("conflicting group was persisted")
	}
}

func TestCreateRejectsNonTeacherOwner(t *testing.T) {
	s := fixture(t)

	var validation *util.ValidationError
	if _, err := s.Create("A-1", uintPtr(3)); !errors.As(err, &validation) {
		t.Fatalf("want validation error for student owner, got %v", err)
	}
	if _, err := s.Create("A-1", uintPtr(99)); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("want not found for unknown owner, got %v", err)
	}
}

func TestCreateUnowned(t *testing.T) {
	s := fixture(t)
	g := mustCreate(t, s, "A-1", nil)
	if g.OwnerID != nil {
		t.Fatalf("unowned group got owner %v", *g.OwnerID)
	}
}

func TestUpdateKeepsNameOnOwnerConflict(t *testing.T) {
	s := fixture(t)
	mustCreate(t, s, "A-1", uintPtr(1))
	other := mustCreate(t, s, "B-1", nil)

	updated, warning, err := s.Update(other.ID, "B-2", uintPtr(1))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if warning == "" {
		t.Fatal("want a conflict warning")
	}
	if updated.Name != "B-2" {
		t.Fatalf("name not saved, got %q", updated.Name)
	}
	if updated.OwnerID != nil {
		t.Fatalf("conflicting owner was assigned: %v", *updated.OwnerID)
	}
}

func TestUpdateKeepsNameOnBadOwner(t *testing.T) {
	s := fixture(t)
	g := mustCreate(t, s, "A-1", uintPtr(1))

	// A proposed owner that is unknown or not a teacher skips only the
	// ownership change, like a conflicting one does.
	for _, ownerID := range []uint{99, 3} {
		updated, warning, err := s.Update(g.ID, "A-2", uintPtr(ownerID))
		if err != nil {
			t.Fatalf("Update(owner=%d): %v", ownerID, err)
		}
		if warning == "" {
			t.Fatalf("Update(owner=%d): want a warning", ownerID)
		}
		if updated.Name != "A-2" {
			t.Fatalf("Update(owner=%d): name not saved, got %q", ownerID, updated.Name)
		}
		if updated.OwnerID == nil || *updated.OwnerID != 1 {
			t.Fatalf("Update(owner=%d): ownership changed to %v", ownerID, updated.OwnerID)
		}
	}
}

func TestUpdateClearsOwner(t *testing.T) {
	s := fixture(t)
	g := mustCreate(t, s, "A-1", uintPtr(1))

	for i := 0; i < 2; i++ { // clearing twice is idempotent
		updated, warning, err := s.Update(g.ID, "A-1", nil)
		if err != nil || warning != "" {
			t.Fatalf("Update: err=%v warning=%q", err, warning)
		}
		if updated.OwnerID != nil {
			t.Fatal("owner not cleared")
		}
	}
}

func TestUpdateSameOwnerNoWarning(t *testing.T) {
	s := fixture(t)
	g := mustCreate(t, s, "A-1", uintPtr(1))

	updated, warning, err := s.Update(g.ID, "A-2", uintPtr(1))
	if err != nil || warning != "" {
		t.Fatalf("Update: err=%v warning=%q", err, warning)
	}
	if updated.OwnerID == nil || *updated.OwnerID != 1 {
		t.Fatal("owner changed unexpectedly")
	}
}

func TestAssignOwnerModes(t *testing.T) {
	s := fixture(t)
	owned := mustCreate(t, s, "A-1", uintPtr(1))
	free := mustCreate(t, s, "B-1", nil)

	// Re-assigning the current owner is a no-op either way.
	if warning, err := s.AssignOwner(owned.ID, 1, AssignStrict); err != nil || warning != "" {
		t.Fatalf("no-op reassign: err=%v warning=%q", err, warning)
	}

	// Teacher 1 already owns A-1: strict rejects, lenient warns.
	if _, err := s.AssignOwner(free.ID, 1, AssignStrict); !util.IsOwnershipConflict(err) {
		t.Fatalf("strict: want conflict, got %v", err)
	}
	warning, err := s.AssignOwner(free.ID, 1, AssignLenient)
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if warning == "" {
		t.Fatal("lenient: want warning")
	}
	if free.OwnerID != nil {
		t.Fatal("lenient: owner was assigned despite conflict")
	}

	// A group with a different owner conflicts for any other teacher.
	if _, err := s.AssignOwner(owned.ID, 2, AssignStrict); !util.IsOwnershipConflict(err) {
		t.Fatalf("occupied group: want conflict, got %v", err)
	}

	// A free teacher takes a free group.
	if warning, err := s.AssignOwner(free.ID, 2, AssignStrict); err != nil || warning != "" {
		t.Fatalf("free assign: err=%v warning=%q", err, warning)
	}
	if free.OwnerID == nil || *free.OwnerID != 2 {
		t.Fatal("owner not assigned")
	}
}

func TestAssignStudentMoves(t *testing.T) {
	s := fixture(t)
	a := mustCreate(t, s, "A-1", uintPtr(1))
	b := mustCreate(t, s, "B-1", uintPtr(2))

	if err := s.AssignStudent(3, &a.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if g, _ := s.MemberOf(3); g == nil || g.ID != a.ID {
		t.Fatal("student not in first group")
	}

	// Moving replaces the membership, never adds a second one.
	if err := s.AssignStudent(3, &b.ID); err != nil {
		t.Fatalf("move: %v", err)
	}
	if g, _ := s.MemberOf(3); g == nil || g.ID != b.ID {
		t.Fatal("student not moved")
	}

	// Assigning the current group again is a no-op.
	if err := s.AssignStudent(3, &b.ID); err != nil {
		t.Fatalf("repeat assign: %v", err)
	}

	// nil removes the membership; removing again is a no-op.
	for i := 0; i < 2; i++ {
		if err := s.AssignStudent(3, nil); err != nil {
			t.Fatalf("unassign: %v", err)
		}
	}
	if g, _ := s.MemberOf(3); g != nil {
		t.Fatal("student still enrolled")
	}
}

func TestAssignStudentRejectsNonStudents(t *testing.T) {
	s := fixture(t)
	g := mustCreate(t, s, "A-1", uintPtr(1))

	var validation *util.ValidationError
	for _, id := range []uint{2, 5} { // teacher, admin
		if err := s.AssignStudent(id, &g.ID); !errors.As(err, &validation) {
			t.Fatalf("AssignStudent(%d): want validation error, got %v", id, err)
		}
		enrolled, err := s.MemberOf(id)
		if err != nil {
			t.Fatalf("MemberOf(%d): %v", id, err)
		}
		if enrolled != nil {
			t.Fatalf("user %d was enrolled anyway", id)
		}
	}
}

func TestExcludeStudent(t *testing.T) {
	s := fixture(t)
	a := mustCreate(t, s, "A-1", uintPtr(1))
	if err := s.AssignStudent(3, &a.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.ExcludeStudent(2, 3); !errors.Is(err, util.ErrNoOwnGroup) {
		t.Fatalf("teacher without group: want ErrNoOwnGroup, got %v", err)
	}

	if err := s.ExcludeStudent(1, 3); err != nil {
		t.Fatalf("exclude: %v", err)
	}
	if g, _ := s.MemberOf(3); g != nil {
		t.Fatal("student still enrolled after exclusion")
	}
}

func TestCanTakeTest(t *testing.T) {
	s := fixture(t)
	a := mustCreate(t, s, "A-1", uintPtr(1))
	unowned := mustCreate(t, s, "B-1", nil)

	test := &model.Test{OwnerID: 1}

	if err := s.AssignStudent(3, &a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignStudent(4, &unowned.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.CanTakeTest(3, test); err != nil {
		t.Fatalf("eligible student rejected: %v", err)
	}
	if err := s.CanTakeTest(4, test); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("student in unowned group: want denied, got %v", err)
	}
	if err := s.CanTakeTest(99, test); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("unassigned student: want denied, got %v", err)
	}

	other := &model.Test{OwnerID: 2}
	if err := s.CanTakeTest(3, other); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("foreign teacher's test: want denied, got %v", err)
	}
}

func TestCanSeeSubject(t *testing.T) {
	s := fixture(t)
	a := mustCreate(t, s, "A-1", uintPtr(1))
	b := mustCreate(t, s, "B-1", uintPtr(2))

	if err := s.AssignStudent(3, &a.ID); err != nil {
		t.Fatal(err)
	}

	mine := &model.Subject{GroupID: a.ID}
	foreign := &model.Subject{GroupID: b.ID}

	if err := s.CanSeeSubject(3, mine); err != nil {
		t.Fatalf("member rejected: %v", err)
	}
	if err := s.CanSeeSubject(3, foreign); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("foreign subject: want denied, got %v", err)
	}
	if err := s.CanSeeSubject(4, mine); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("unassigned student: want denied, got %v", err)
	}
}
