package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"studyclass_backend/internal/model"
	"studyclass_backend/internal/repository"
	"studyclass_backend/internal/util"
	"studyclass_backend/pkg/logger"
	"studyclass_backend/pkg/monitoring"
)

const bestScoreTTL = 10 * time.Minute

// TryService runs the submission flow: eligibility, scoring, and the
// append-only try record.
type TryService struct {
	Tries  *repository.TryRepository
	Tests  *repository.TestRepository
	Groups *GroupService
	Redis  *redis.Client
}

func NewTryService(tries *repository.TryRepository, tests *repository.TestRepository, groups *GroupService, rdb *redis.Client) *TryService {
	return &TryService{Tries: tries, Tests: tests, Groups: groups, Redis: rdb}
}

// Submit scores a student's answer sheet against the test. Eligibility
// comes first: no score is ever computed or recorded for a student outside
// the test owner's group.
func (s *TryService) Submit(ctx context.Context, studentID, testID uint, sheet AnswerSheet) (*model.Try, error) {
	test, err := s.Tests.FindByIDFull(testID)
	if err != nil {
		return nil, util.ErrNotFound
	}

	if err := s.Groups.CanTakeTest(studentID, test); err != nil {
		return nil, err
	}

	score := CalculateScore(test.Questions, sheet)

	try := &model.Try{UserID: studentID, TestID: testID, Score: score}
	if err := s.Tries.Create(try); err != nil {
		return nil, err
	}
	monitoring.ScoredTries.Inc()

	s.invalidateBestScore(ctx, testID)
	return try, nil
}

func (s *TryService) ListForTest(testID uint) ([]model.Try, error) {
	return s.Tries.FindByTest(testID)
}

func (s *TryService) ListForStudent(studentID, testID uint) ([]model.Try, error) {
	return s.Tries.FindByUserAndTest(studentID, testID)
}

// BestScore is the highest score anyone got on the test, cached in redis
// with the database as source of truth.
func (s *TryService) BestScore(ctx context.Context, testID uint) (float64, error) {
	key := bestScoreKey(testID)

	if s.Redis != nil {
		if v, err := s.Redis.Get(ctx, key).Result(); err == nil {
			if best, err := strconv.ParseFloat(v, 64); err == nil {
				return best, nil
			}
		}
	}

	best, err := s.Tries.BestScore(testID)
	if err != nil {
		return 0, err
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, key, strconv.FormatFloat(best, 'f', -1, 64), bestScoreTTL).Err(); err != nil {
			logger.Log.Warn("best score cache write failed", zap.Error(err))
		}
	}
	return best, nil
}

func (s *TryService) invalidateBestScore(ctx context.Context, testID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, bestScoreKey(testID)).Err(); err != nil {
		logger.Log.Warn("best score cache invalidation failed", zap.Error(err))
	}
}

func bestScoreKey(testID uint) string {
	return fmt.Sprintf("test:%d:best_score", testID)
}
