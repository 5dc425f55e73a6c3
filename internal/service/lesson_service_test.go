package service

import (
	"testing"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
)

type memSubjectStore struct {
	nextID   uint
	subjects map[uint]*model.Subject
	groups   *memGroupStore
}

func newMemSubjectStore(groups *memGroupStore) *memSubjectStore {
	return &memSubjectStore{subjects: make(map[uint]*model.Subject), groups: groups}
}

func (m *memSubjectStore) Create(subject *model.Subject) error {
	m.nextID++
	subject.ID = m.nextID
	m.subjects[subject.ID] = subject
	return nil
}

func (m *memSubjectStore) FindByID(id uint) (*model.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, errMissing
	}
	full := *s
	if g, ok := m.groups.groups[s.GroupID]; ok {
		full.Group = g
	}
	return &full, nil
}

func (m *memSubjectStore) FindAll() ([]model.Subject, error) {
	var subjects []model.Subject
	for _, s := range m.subjects {
		subjects = append(subjects, *s)
	}
	return subjects, nil
}

func (m *memSubjectStore) FindByGroup(groupID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	for _, s := range m.subjects {
		if s.GroupID == groupID {
			subjects = append(subjects, *s)
		}
	}
	return subjects, nil
}

func (m *memSubjectStore) FindByGroupOwner(ownerID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	for _, s := range m.subjects {
		g, ok := m.groups.groups[s.GroupID]
		if ok && g.OwnerID != nil && *g.OwnerID == ownerID {
			subjects = append(subjects, *s)
		}
	}
	return subjects, nil
}

func (m *memSubjectStore) Update(subject *model.Subject) error {
	m.subjects[subject.ID] = subject
	return nil
}

func (m *memSubjectStore) Delete(subject *model.Subject) error {
	delete(m.subjects, subject.ID)
	return nil
}

type memLessonStore struct {
	nextID   uint
	lessons  map[uint]*model.Lesson
	attached map[uint][]model.LessonPhoto // lesson id -> photos
}

func newMemLessonStore() *memLessonStore {
	return &memLessonStore{lessons: make(map[uint]*model.Lesson), attached: make(map[uint][]model.LessonPhoto)}
}

func (m *memLessonStore) Create(lesson *model.Lesson) error {
	m.nextID++
	lesson.ID = m.nextID
	m.lessons[lesson.ID] = lesson
	return nil
}

func (m *memLessonStore) FindByID(id uint) (*model.Lesson, error) {
	l, ok := m.lessons[id]
	if !ok {
		return nil, errMissing
	}
	full := *l
	full.Photos = m.attached[id]
	return &full, nil
}

func (m *memLessonStore) FindAll() ([]model.Lesson, error) {
	var lessons []model.Lesson
	for _, l := range m.lessons {
		lessons = append(lessons, *l)
	}
	return lessons, nil
}

func (m *memLessonStore) FindBySubject(subjectID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	for _, l := range m.lessons {
		if l.SubjectID == subjectID {
			lessons = append(lessons, *l)
		}
	}
	return lessons, nil
}

func (m *memLessonStore) FindByGroupOwner(ownerID uint) ([]model.Lesson, error) {
	return nil, nil
}

func (m *memLessonStore) Update(lesson *model.Lesson) error {
	m.lessons[lesson.ID] = lesson
	return nil
}

func (m *memLessonStore) ReplacePhotos(lesson *model.Lesson, photos []model.LessonPhoto) error {
	m.attached[lesson.ID] = photos
	return nil
}

func (m *memLessonStore) Delete(lesson *model.Lesson) error {
	delete(m.lessons, lesson.ID)
	delete(m.attached, lesson.ID)
	return nil
}

type memPhotoStore struct {
	nextID uint
	photos map[uint]*model.LessonPhoto
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{photos: make(map[uint]*model.LessonPhoto)}
}

func (m *memPhotoStore) Create(photo *model.LessonPhoto) error {
	m.nextID++
	photo.ID = m.nextID
	m.photos[photo.ID] = photo
	return nil
}

func (m *memPhotoStore) FindByID(id uint) (*model.LessonPhoto, error) {
	p, ok := m.photos[id]
	if !ok {
		return nil, errMissing
	}
	return p, nil
}

func (m *memPhotoStore) FindByIDs(ids []uint) ([]model.LessonPhoto, error) {
	var photos []model.LessonPhoto
	for _, id := range ids {
		if p, ok := m.photos[id]; ok {
			photos = append(photos, *p)
		}
	}
	return photos, nil
}

func (m *memPhotoStore) FindByOwner(ownerID uint) ([]model.LessonPhoto, error) {
	var photos []model.LessonPhoto
	for _, p := range m.photos {
		if p.OwnerID == ownerID {
			photos = append(photos, *p)
		}
	}
	return photos, nil
}

func (m *memPhotoStore) Update(photo *model.LessonPhoto) error {
	m.photos[photo.ID] = photo
	return nil
}

func (m *memPhotoStore) Delete(photo *model.LessonPhoto) error {
	delete(m.photos, photo.ID)
	return nil
}

// lessonFixture builds two owned groups with one subject each, a lesson
// in the first subject and one library photo per teacher, plus a subject
// whose group has no owner.
func lessonFixture(t *testing.T) (*LessonService, map[string]uint) {
	t.Helper()

	users := &memUserStore{users: make(map[uint]*model.User)}
	for id, last := range map[uint]string{1: "Ivanov", 2: "Petrov"} {
		u := &model.User{LastName: last, Role: model.Teacher}
		u.ID = id
		users.users[id] = u
	}

	groupStore := newMemGroupStore()
	groups := NewGroupService(groupStore, users)
	subjects := NewSubjectService(newMemSubjectStore(groupStore), groups)
	photos := newMemPhotoStore()
	svc := NewLessonService(newMemLessonStore(), photos, subjects, nil)

	ids := make(map[string]uint)
	for teacher, prefix := range map[uint]string{1: "a", 2: "b"} {
		group, err := groups.Create(prefix+"-grp", uintPtr(teacher))
		if err != nil {
			t.Fatalf("create group: %v", err)
		}
		subject, err := subjects.Create(prefix+"-subj", group.ID)
		if err != nil {
			t.Fatalf("create subject: %v", err)
		}
		ids[prefix+"Subject"] = subject.ID

		photo := &model.LessonPhoto{OwnerID: teacher, Name: prefix + "-photo", URL: "/" + prefix}
		if err := photos.Create(photo); err != nil {
			t.Fatalf("create photo: %v", err)
		}
		ids[prefix+"Photo"] = photo.ID
	}

	orphanGroup, err := groups.Create("orphan", nil)
	if err != nil {
		t.Fatalf("create unowned group: %v", err)
	}
	orphanSubject, err := subjects.Create("orphan-subj", orphanGroup.ID)
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	ids["orphanSubject"] = orphanSubject.ID

	lesson, err := svc.Create(LessonRequest{Name: "intro", SubjectID: ids["aSubject"]})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	ids["lesson"] = lesson.ID
	return svc, ids
}

func TestAttachPhotosScopedToGroupOwner(t *testing.T) {
	svc, ids := lessonFixture(t)

	// Another teacher's photo cannot be attached.
	_, err := svc.Update(ids["lesson"], LessonRequest{
		Name: "intro", SubjectID: ids["aSubject"], PhotoIDs: []uint{ids["bPhoto"]},
	})
	if !util.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	lesson, err := svc.Get(ids["lesson"])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(lesson.Photos) != 0 {
		t.Fatalf("foreign photo was attached: %+v", lesson.Photos)
	}

	updated, err := svc.Update(ids["lesson"], LessonRequest{
		Name: "intro", SubjectID: ids["aSubject"], PhotoIDs: []uint{ids["aPhoto"]},
	})
	if err != nil {
		t.Fatalf("Update with own photo: %v", err)
	}
	lesson, err = svc.Get(updated.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(lesson.Photos) != 1 || lesson.Photos[0].ID != ids["aPhoto"] {
		t.Fatalf("own photo not attached: %+v", lesson.Photos)
	}
}

func TestAttachPhotosRejectsUnknownIDs(t *testing.T) {
	svc, ids := lessonFixture(t)

	_, err := svc.Update(ids["lesson"], LessonRequest{
		Name: "intro", SubjectID: ids["aSubject"], PhotoIDs: []uint{99},
	})
	if !util.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestPhotosForLesson(t *testing.T) {
	svc, ids := lessonFixture(t)

	photos, err := svc.PhotosForLesson(ids["lesson"])
	if err != nil {
		t.Fatalf("PhotosForLesson: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != ids["aPhoto"] {
		t.Fatalf("want only the group owner's photo, got %+v", photos)
	}
}

func TestPhotosForLessonEmptyForUnownedGroup(t *testing.T) {
	svc, ids := lessonFixture(t)

	lesson, err := svc.Create(LessonRequest{Name: "stray", SubjectID: ids["orphanSubject"]})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	photos, err := svc.PhotosForLesson(lesson.ID)
	if err != nil {
		t.Fatalf("PhotosForLesson: %v", err)
	}
	if len(photos) != 0 {
		t.Fatalf("unowned group should have an empty library, got %+v", photos)
	}
}
