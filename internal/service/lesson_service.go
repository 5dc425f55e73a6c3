package service

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/util"
	"studyclass_backend/pkg/logger"
)

// LessonStore and PhotoStore are the repository slices the lesson flows
// need, narrow so they can be backed by in-memory stores in tests.
type LessonStore interface {
	Create(lesson *model.Lesson) error
	FindByID(id uint) (*model.Lesson, error)
	FindAll() ([]model.Lesson, error)
	FindBySubject(subjectID uint) ([]model.Lesson, error)
	FindByGroupOwner(ownerID uint) ([]model.Lesson, error)
	Update(lesson *model.Lesson) error
	ReplacePhotos(lesson *model.Lesson, photos []model.LessonPhoto) error
	Delete(lesson *model.Lesson) error
}

type PhotoStore interface {
	Create(photo *model.LessonPhoto) error
	FindByID(id uint) (*model.LessonPhoto, error)
	FindByIDs(ids []uint) ([]model.LessonPhoto, error)
	FindByOwner(ownerID uint) ([]model.LessonPhoto, error)
	Update(photo *model.LessonPhoto) error
	Delete(photo *model.LessonPhoto) error
}

type LessonService struct {
	Lessons  LessonStore
	Photos   PhotoStore
	Subjects *SubjectService
	Storage  StorageProvider
}

func NewLessonService(lessons LessonStore, photos PhotoStore, subjects *SubjectService, storage StorageProvider) *LessonService {
	return &LessonService{Lessons: lessons, Photos: photos, Subjects: subjects, Storage: storage}
}

type LessonRequest struct {
	Name      string `json:"name" binding:"required"`
	SubjectID uint   `json:"subjectId" binding:"required"`
	Text      string `json:"text"`
	TestID    *uint  `json:"testId"`
	PhotoIDs  []uint `json:"photoIds"`
}

func (s *LessonService) List() ([]model.Lesson, error) {
	return s.Lessons.FindAll()
}

// ListForTeacher groups the teacher's lessons by subject, the shape the
// teacher dashboard renders.
func (s *LessonService) ListForTeacher(teacherID uint) (map[uint][]model.Lesson, error) {
	lessons, err := s.Lessons.FindByGroupOwner(teacherID)
	if err != nil {
		return nil, err
	}
	bySubject := make(map[uint][]model.Lesson)
	for _, lesson := range lessons {
		bySubject[lesson.SubjectID] = append(bySubject[lesson.SubjectID], lesson)
	}
	return bySubject, nil
}

func (s *LessonService) ListForSubject(subjectID uint) ([]model.Lesson, error) {
	return s.Lessons.FindBySubject(subjectID)
}

func (s *LessonService) Get(id uint) (*model.Lesson, error) {
	lesson, err := s.Lessons.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	return lesson, nil
}

func (s *LessonService) Create(req LessonRequest) (*model.Lesson, error) {
	if _, err := s.Subjects.Get(req.SubjectID); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		Name:      req.Name,
		SubjectID: req.SubjectID,
		Text:      req.Text,
		TestID:    req.TestID,
	}
	if err := s.Lessons.Create(lesson); err != nil {
		return nil, err
	}

	if len(req.PhotoIDs) > 0 {
		if err := s.attachPhotos(lesson, req.PhotoIDs); err != nil {
			return nil, err
		}
	}
	return lesson, nil
}

func (s *LessonService) Update(id uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.Lessons.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if _, err := s.Subjects.Get(req.SubjectID); err != nil {
		return nil, err
	}

	lesson.Name = req.Name
	lesson.SubjectID = req.SubjectID
	lesson.Subject = nil
	lesson.Text = req.Text
	lesson.TestID = req.TestID
	lesson.Test = nil
	if err := s.Lessons.Update(lesson); err != nil {
		return nil, err
	}

	if err := s.attachPhotos(lesson, req.PhotoIDs); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(id uint) error {
	lesson, err := s.Lessons.FindByID(id)
	if err != nil {
		return util.ErrNotFound
	}
	return s.Lessons.Delete(lesson)
}

// AttachVideo stores an uploaded lesson video and records its probed
// duration. Probe failures only cost the metadata.
func (s *LessonService) AttachVideo(ctx context.Context, lessonID uint, filename, localPath string, size int64, contentType string) (*model.Lesson, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrNotFound
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.Storage.Upload(ctx, filename, io.Reader(f), size, contentType)
	if err != nil {
		return nil, err
	}
	lesson.VideoURL = url

	if info, err := util.ProbeVideo(localPath); err != nil {
		logger.Log.Warn("video probe failed", zap.String("file", filename), zap.Error(err))
	} else {
		lesson.VideoDuration = info.Duration
	}

	if err := s.Lessons.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// attachPhotos replaces the lesson's photo set. Only photos from the
// library of the lesson's group owner may be attached.
func (s *LessonService) attachPhotos(lesson *model.Lesson, photoIDs []uint) error {
	photos, err := s.Photos.FindByIDs(photoIDs)
	if err != nil {
		return err
	}
	if len(photos) != len(photoIDs) {
		return &util.ValidationError{Field: "photoIds", Reason: "unknown photo"}
	}

	if len(photos) > 0 {
		ownerID, err := s.libraryOwner(lesson.SubjectID)
		if err != nil {
			return err
		}
		for _, photo := range photos {
			if ownerID == nil || photo.OwnerID != *ownerID {
				return &util.ValidationError{Field: "photoIds", Reason: "photo is outside the group owner's library"}
			}
		}
	}
	return s.Lessons.ReplacePhotos(lesson, photos)
}

// libraryOwner resolves whose photo library a lesson draws from: the
// owner of the subject's group, nil when the group is unowned.
func (s *LessonService) libraryOwner(subjectID uint) (*uint, error) {
	subject, err := s.Subjects.Get(subjectID)
	if err != nil {
		return nil, err
	}
	if subject.Group == nil {
		return nil, nil
	}
	return subject.Group.OwnerID, nil
}

// PhotosForLesson lists the photo library a lesson may attach from. An
// unowned group has an empty library.
func (s *LessonService) PhotosForLesson(lessonID uint) ([]model.LessonPhoto, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	ownerID, err := s.libraryOwner(lesson.SubjectID)
	if err != nil {
		return nil, err
	}
	if ownerID == nil {
		return []model.LessonPhoto{}, nil
	}
	return s.Photos.FindByOwner(*ownerID)
}

// OwnedByTeacher reports whether the lesson's subject belongs to the
// teacher's group.
func (s *LessonService) OwnedByTeacher(teacherID uint, lesson *model.Lesson) (bool, error) {
	subject, err := s.Subjects.Get(lesson.SubjectID)
	if err != nil {
		return false, err
	}
	return s.Subjects.OwnedByTeacher(teacherID, subject)
}

// Photo library

func (s *LessonService) ListPhotos(ownerID uint) ([]model.LessonPhoto, error) {
	return s.Photos.FindByOwner(ownerID)
}

func (s *LessonService) GetPhoto(id uint) (*model.LessonPhoto, error) {
	photo, err := s.Photos.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	return photo, nil
}

func (s *LessonService) CreatePhoto(ctx context.Context, ownerID uint, name, filename string, reader io.Reader, size int64, contentType string) (*model.LessonPhoto, error) {
	url, err := s.Storage.Upload(ctx, filename, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	photo := &model.LessonPhoto{OwnerID: ownerID, Name: name, URL: url}
	if err := s.Photos.Create(photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *LessonService) RenamePhoto(id uint, name string) (*model.LessonPhoto, error) {
	photo, err := s.Photos.FindByID(id)
	if err != nil {
		return nil, util.ErrNotFound
	}
	photo.Name = name
	if err := s.Photos.Update(photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *LessonService) DeletePhoto(id uint) error {
	photo, err := s.Photos.FindByID(id)
	if err != nil {
		return util.ErrNotFound
	}
	return s.Photos.Delete(photo)
}
