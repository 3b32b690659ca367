package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
)

// --- StoryRepository ---

type MockStoryRepo struct {
	mock.Mock
}

func (m *MockStoryRepo) Create(story *entity.Story) error {
	args := m.Called(story)
	return args.Error(0)
}

func (m *MockStoryRepo) GetByID(id uint) (*entity.Story, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Story), args.Error(1)
}

func (m *MockStoryRepo) GetWithQuiz(id uint) (*entity.Story, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Story), args.Error(1)
}

func (m *MockStoryRepo) List(filters repository.StoryFilters, limit, offset int) ([]entity.Story, int64, error) {
	args := m.Called(filters, limit, offset)
	return args.Get(0).([]entity.Story), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoryRepo) Update(story *entity.Story) error {
	args := m.Called(story)
	return args.Error(0)
}

func (m *MockStoryRepo) ReplaceQuiz(storyID uint, items []entity.QuizItem) error {
	args := m.Called(storyID, items)
	return args.Error(0)
}

func (m *MockStoryRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStoryRepo) CountByCategory(categoryID uint) (int64, error) {
	args := m.Called(categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStoryRepo) CountCreatedBetween(from, to time.Time) (int64, error) {
	args := m.Called(from, to)
	return args.Get(0).(int64), args.Error(1)
}

// --- CategoryRepository ---

type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(category *entity.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepo) GetByID(id uint) (*entity.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepo) List() ([]entity.Category, error) {
	args := m.Called()
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepo) Update(category *entity.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// --- CodeRepository ---

type MockCodeRepo struct {
	mock.Mock
}

func (m *MockCodeRepo) Create(code *entity.Code) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockCodeRepo) GetByID(id uint) (*entity.Code, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Code), args.Error(1)
}

func (m *MockCodeRepo) GetActiveByCode(code string) (*entity.Code, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Code), args.Error(1)
}

func (m *MockCodeRepo) Exists(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepo) ListByStory(storyID uint) ([]entity.Code, error) {
	args := m.Called(storyID)
	return args.Get(0).([]entity.Code), args.Error(1)
}

func (m *MockCodeRepo) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockCodeRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCodeRepo) CountCreatedBetween(from, to time.Time) (int64, error) {
	args := m.Called(from, to)
	return args.Get(0).(int64), args.Error(1)
}

// --- ViewRepository ---

type MockViewRepo struct {
	mock.Mock
}

func (m *MockViewRepo) Upsert(view *entity.StudentStoryView) error {
	args := m.Called(view)
	return args.Error(0)
}

func (m *MockViewRepo) Exists(codeID, storyID uint, fullName, section, deviceID string) (bool, error) {
	args := m.Called(codeID, storyID, fullName, section, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewRepo) ExistsAnyDevice(codeID, storyID uint, fullName, section string) (bool, error) {
	args := m.Called(codeID, storyID, fullName, section)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewRepo) ListByCode(codeID uint) ([]entity.StudentStoryView, error) {
	args := m.Called(codeID)
	return args.Get(0).([]entity.StudentStoryView), args.Error(1)
}

func (m *MockViewRepo) StudentLog(codeID uint) ([]repository.StudentLogRow, error) {
	args := m.Called(codeID)
	return args.Get(0).([]repository.StudentLogRow), args.Error(1)
}

// --- SubmissionRepository ---

type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(tx *gorm.DB, submission *entity.StudentSubmission) error {
	args := m.Called(tx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepo) CreateAnswers(tx *gorm.DB, answers []entity.Answer) error {
	args := m.Called(tx, answers)
	return args.Error(0)
}

func (m *MockSubmissionRepo) UpdateScore(tx *gorm.DB, submissionID uint, score int) error {
	args := m.Called(tx, submissionID, score)
	return args.Error(0)
}

func (m *MockSubmissionRepo) GetByIdentity(codeID uint, fullName, section string) (*entity.StudentSubmission, error) {
	args := m.Called(codeID, fullName, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StudentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) GetWithAnswers(id uint) (*entity.StudentSubmission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StudentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) ListByCode(codeID uint) ([]entity.StudentSubmission, error) {
	args := m.Called(codeID)
	return args.Get(0).([]entity.StudentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) CountCreatedBetween(from, to time.Time) (int64, error) {
	args := m.Called(from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepo) AverageScorePercent(from, to time.Time) (float64, bool, error) {
	args := m.Called(from, to)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// --- UserRepository ---

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) List() ([]entity.User, error) {
	args := m.Called()
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateStatus(email, status string) error {
	args := m.Called(email, status)
	return args.Error(0)
}

// --- SystemConfigRepository ---

type MockSystemConfigRepo struct {
	mock.Mock
}

func (m *MockSystemConfigRepo) Get() (*entity.SystemConfig, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SystemConfig), args.Error(1)
}

func (m *MockSystemConfigRepo) Save(cfg *entity.SystemConfig) error {
	args := m.Called(cfg)
	return args.Error(0)
}

// --- CacheRepository ---

type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// --- TxRunner ---

// fakeTxRunner calls the closure with a nil tx; the repo mocks accept
// whatever tx they receive.
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	if f.err != nil {
		return f.err
	}
	return fc(nil)
}

// --- DashboardNotifier ---

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) NotifyStudentEvent(eventType string, payload interface{}) {
	n.events = append(n.events, eventType)
}

// --- EmailService ---

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvite(ctx context.Context, toEmail, name, inviteURL, idempotencyKey string) error {
	args := m.Called(ctx, toEmail, name, inviteURL, idempotencyKey)
	return args.Error(0)
}
