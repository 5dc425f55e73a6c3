package service

import (
	"testing"

	"studyclass_backend/internal/model"
)

func (m *memUserStore) Create(user *model.User) error {
	user.ID = uint(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errMissing
}

func (m *memUserStore) FindByRole(role model.UserRole) ([]model.User, error) {
	var users []model.User
	for _, u := range m.users {
		if u.Role == role {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (m *memUserStore) Update(user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) Delete(user *model.User) error {
	delete(m.users, user.ID)
	return nil
}

type memPhotoLibrary struct {
	owners map[uint]int // owner id -> photo count
}

func (m *memPhotoLibrary) DeleteByOwner(ownerID uint) error {
	delete(m.owners, ownerID)
	return nil
}

type memTryLog struct {
	users map[uint]int // user id -> try count
}

func (m *memTryLog) DeleteByUser(userID uint) error {
	delete(m.users, userID)
	return nil
}

type stubMailer struct {
	sent []string
}

func (m *stubMailer) SendCredentials(recipient, email, password string) error {
	m.sent = append(m.sent, email)
	return nil
}

type userEnv struct {
	svc    *UserService
	users  *memUserStore
	groups *memGroupStore
	tests  *memTestStore
	photos *memPhotoLibrary
	tries  *memTryLog
}

// userEnvFixture wires the account service over in-memory stores with a
// teacher (id 1) owning a group, a test and two photos, and a student
// (id 3) enrolled in that group with one recorded try.
func userEnvFixture(t *testing.T) *userEnv {
	t.Helper()

	env := &userEnv{
		users:  &memUserStore{users: make(map[uint]*model.User)},
		groups: newMemGroupStore(),
		tests:  newMemTestStore(),
		photos: &memPhotoLibrary{owners: make(map[uint]int)},
		tries:  &memTryLog{users: make(map[uint]int)},
	}
	addUser := func(id uint, role model.UserRole, last string) {
		u := &model.User{LastName: last, Role: role}
		u.ID = id
		env.users.users[id] = u
	}
	addUser(1, model.Teacher, "Ivanov")
	addUser(3, model.Student, "Sidorov")

	groups := NewGroupService(env.groups, env.users)
	env.svc = NewUserService(env.users, groups, env.tests, env.photos, env.tries, &stubMailer{})

	ownerID := uint(1)
	group := &model.Group{Name: "A-1", OwnerID: &ownerID}
	if err := env.groups.Create(group); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	env.groups.members[3] = group.ID

	if err := env.tests.Create(&model.Test{OwnerID: 1, Name: "algebra"}); err != nil {
		t.Fatalf("seed test: %v", err)
	}
	env.photos.owners[1] = 2
	env.tries.users[3] = 1
	return env
}

func TestDeleteTeacherRemovesOwnedContent(t *testing.T) {
	env := userEnvFixture(t)

	if err := env.svc.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := env.users.users[1]; ok {
		t.Fatal("account still present")
	}
	group, err := env.groups.FindByID(1)
	if err != nil {
		t.Fatalf("group should survive its owner: %v", err)
	}
	if group.OwnerID != nil {
		t.Fatalf("group still owned by %d", *group.OwnerID)
	}
	if tests, _ := env.tests.FindByOwner(1); len(tests) != 0 {
		t.Fatalf("owned tests survived: %d", len(tests))
	}
	if _, ok := env.photos.owners[1]; ok {
		t.Fatal("photo library survived")
	}
}

func TestDeleteStudentRemovesTries(t *testing.T) {
	env := userEnvFixture(t)

	if err := env.svc.Delete(3); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := env.users.users[3]; ok {
		t.Fatal("account still present")
	}
	if group, _ := env.groups.FindByStudent(3); group != nil {
		t.Fatal("membership survived")
	}
	if _, ok := env.tries.users[3]; ok {
		t.Fatal("tries survived")
	}
}
