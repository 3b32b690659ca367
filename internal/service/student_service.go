package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
	"github.com/yourusername/storyquiz-api/pkg/auth"
)

// TxRunner abstracts gorm's Transaction so submission logic can be unit
// tested without a live database. *gorm.DB satisfies it directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// DashboardNotifier receives student activity events for the live staff
// dashboard. Implemented by the websocket hub; a nil notifier is valid.
type DashboardNotifier interface {
	NotifyStudentEvent(eventType string, payload interface{})
}

// Dashboard event types.
const (
	EventStoryViewed   = "story_viewed"
	EventQuizSubmitted = "quiz_submitted"
)

// SubmitQuizInput carries one complete quiz submission.
type SubmitQuizInput struct {
	CodeID   uint
	StoryID  uint
	Identity auth.StudentIdentity
	// Answers maps quiz item ID to the selected choice text.
	Answers map[uint]string
}

// AnswerResult is the per-question slice of a results read.
type AnswerResult struct {
	QuizItemID     uint   `json:"quiz_item_id"`
	QuizNumber     int    `json:"quiz_number"`
	Question       string `json:"question"`
	SelectedAnswer string `json:"selected_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	Correct        bool   `json:"correct"`
}

// SubmissionResults is what a student (or teacher) sees for one
// submission.
type SubmissionResults struct {
	SubmissionID uint    `json:"submission_id"`
	FullName     string  `json:"full_name"`
	Section      string  `json:"section"`
	Score        int     `json:"score"`
	TotalItems   int     `json:"total_items"`
	Percentage   float64 `json:"percentage"`

	// ScoreStale is set when the cached score no longer matches a
	// recomputation against the current quiz items, i.e. the quiz was
	// edited after this submission.
	ScoreStale bool `json:"score_stale,omitempty"`

	SubmittedAt time.Time      `json:"submitted_at"`
	Items       []AnswerResult `json:"items"`
}

// StudentService implements the student-facing flow: view tracking, the
// view gate and quiz submission.
type StudentService struct {
	codes     *CodeService
	storyRepo repository.StoryRepository
	viewRepo  repository.ViewRepository
	subRepo   repository.SubmissionRepository
	db        TxRunner
	notifier  DashboardNotifier
}

// NewStudentService creates a new student service.
func NewStudentService(
	codes *CodeService,
	storyRepo repository.StoryRepository,
	viewRepo repository.ViewRepository,
	subRepo repository.SubmissionRepository,
	db TxRunner,
	notifier DashboardNotifier,
) *StudentService {
	return &StudentService{
		codes:     codes,
		storyRepo: storyRepo,
		viewRepo:  viewRepo,
		subRepo:   subRepo,
		db:        db,
		notifier:  notifier,
	}
}

// TrackStoryView records that the identity opened the story behind the
// code. It runs as a side effect of page navigation and must never
// block rendering, so every failure is logged and reported as false
// instead of returned.
func (s *StudentService) TrackStoryView(rawCode string, identity auth.StudentIdentity) bool {
	resolved, err := s.codes.Resolve(rawCode)
	if err != nil {
		log.Printf("[StudentService] track view: resolve %q failed: %v", rawCode, err)
		return false
	}

	now := time.Now()
	view := &entity.StudentStoryView{
		CodeID:   resolved.CodeID,
		StoryID:  resolved.StoryID,
		FullName: identity.FullName,
		Section:  identity.Section,
		DeviceID: identity.DeviceID,
		ViewedAt: now,
	}
	if err := s.viewRepo.Upsert(view); err != nil {
		log.Printf("[StudentService] track view: upsert failed for code #%d: %v", resolved.CodeID, err)
		return false
	}

	s.notify(EventStoryViewed, map[string]interface{}{
		"code_id":   resolved.CodeID,
		"story_id":  resolved.StoryID,
		"full_name": identity.FullName,
		"section":   identity.Section,
		"viewed_at": now,
	})
	return true
}

// HasViewedStory is the view-gate read: it checks whether the identity
// has a recorded view for the code's story. When the identity has no
// device ID (sessions from before device tracking) the check falls back
// to the device-less tuple. A code that no longer resolves gates to
// false without error.
func (s *StudentService) HasViewedStory(rawCode string, identity auth.StudentIdentity) (bool, error) {
	resolved, err := s.codes.Resolve(rawCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			return false, nil
		}
		return false, err
	}

	if identity.DeviceID != "" {
		return s.viewRepo.Exists(resolved.CodeID, resolved.StoryID, identity.FullName, identity.Section, identity.DeviceID)
	}
	return s.viewRepo.ExistsAnyDevice(resolved.CodeID, resolved.StoryID, identity.FullName, identity.Section)
}

// SubmitQuizAnswers validates and persists one complete submission in a
// single transaction and returns it with the computed score. A second
// submission for the same (code, name, section) fails with
// ErrDuplicateSubmission; the partial unique index makes that hold even
// for two concurrent submits.
func (s *StudentService) SubmitQuizAnswers(input SubmitQuizInput) (*entity.StudentSubmission, error) {
	if input.Identity.FullName == "" || input.Identity.Section == "" {
		return nil, fmt.Errorf("%w: student name and section are required", apperrors.ErrValidation)
	}

	story, err := s.storyRepo.GetWithQuiz(input.StoryID)
	if err != nil {
		return nil, err
	}
	if !story.HasQuiz() {
		return nil, fmt.Errorf("%w: story %q has no quiz", apperrors.ErrValidation, story.Title)
	}

	// Every quiz item needs exactly one answer; unknown item IDs are
	// rejected the same way as missing ones.
	if len(input.Answers) != len(story.QuizItems) {
		return nil, fmt.Errorf("%w: expected %d answers, got %d",
			apperrors.ErrValidation, len(story.QuizItems), len(input.Answers))
	}
	for i := range story.QuizItems {
		if _, ok := input.Answers[story.QuizItems[i].ID]; !ok {
			return nil, fmt.Errorf("%w: missing answer for question %d",
				apperrors.ErrValidation, story.QuizItems[i].QuizNumber)
		}
	}

	// Advisory fast-fail with a descriptive message; the unique index
	// remains the real guard under concurrency.
	if _, err := s.subRepo.GetByIdentity(input.CodeID, input.Identity.FullName, input.Identity.Section); err == nil {
		return nil, fmt.Errorf("%w for %s (%s)",
			repository.ErrDuplicateSubmission, input.Identity.FullName, input.Identity.Section)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	submission := &entity.StudentSubmission{
		CodeID:      input.CodeID,
		StoryID:     input.StoryID,
		FullName:    input.Identity.FullName,
		Section:     input.Identity.Section,
		DeviceID:    input.Identity.DeviceID,
		SubmittedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.subRepo.Create(tx, submission); err != nil {
			return err
		}

		score := 0
		answers := make([]entity.Answer, 0, len(story.QuizItems))
		for i := range story.QuizItems {
			item := &story.QuizItems[i]
			selected := input.Answers[item.ID]
			if item.IsCorrect(selected) {
				score++
			}
			answers = append(answers, entity.Answer{
				SubmissionID:   submission.ID,
				QuizItemID:     item.ID,
				SelectedAnswer: selected,
			})
		}

		if err := s.subRepo.CreateAnswers(tx, answers); err != nil {
			return err
		}
		if err := s.subRepo.UpdateScore(tx, submission.ID, score); err != nil {
			return err
		}
		submission.Score = score
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(EventQuizSubmitted, map[string]interface{}{
		"code_id":      input.CodeID,
		"story_id":     input.StoryID,
		"full_name":    input.Identity.FullName,
		"section":      input.Identity.Section,
		"score":        submission.Score,
		"total_items":  len(story.QuizItems),
		"submitted_at": submission.SubmittedAt,
	})

	return submission, nil
}

// GetSubmissionResults returns the identity's submission for the code
// with per-question correctness and the percentage. The cached score is
// compared against a recomputation over the current quiz items; a
// mismatch marks the result stale rather than silently trusting either
// number.
func (s *StudentService) GetSubmissionResults(rawCode string, identity auth.StudentIdentity) (*SubmissionResults, error) {
	resolved, err := s.codes.Resolve(rawCode)
	if err != nil {
		return nil, err
	}

	submission, err := s.subRepo.GetByIdentity(resolved.CodeID, identity.FullName, identity.Section)
	if err != nil {
		return nil, err
	}

	full, err := s.subRepo.GetWithAnswers(submission.ID)
	if err != nil {
		return nil, err
	}

	story, err := s.storyRepo.GetWithQuiz(resolved.StoryID)
	if err != nil {
		return nil, err
	}

	selectedByItem := make(map[uint]string, len(full.Answers))
	for _, a := range full.Answers {
		selectedByItem[a.QuizItemID] = a.SelectedAnswer
	}

	recomputed := 0
	items := make([]AnswerResult, 0, len(story.QuizItems))
	for i := range story.QuizItems {
		item := &story.QuizItems[i]
		selected := selectedByItem[item.ID]
		correct := item.IsCorrect(selected)
		if correct {
			recomputed++
		}
		items = append(items, AnswerResult{
			QuizItemID:     item.ID,
			QuizNumber:     item.QuizNumber,
			Question:       item.Question,
			SelectedAnswer: selected,
			CorrectAnswer:  item.CorrectAnswer,
			Correct:        correct,
		})
	}

	stale := recomputed != full.Score
	if stale {
		log.Printf("[StudentService] score drift on submission #%d: cached=%d recomputed=%d (quiz edited after submit?)",
			full.ID, full.Score, recomputed)
	}

	return &SubmissionResults{
		SubmissionID: full.ID,
		FullName:     full.FullName,
		Section:      full.Section,
		Score:        full.Score,
		TotalItems:   len(story.QuizItems),
		Percentage:   ScorePercentage(full.Score, len(story.QuizItems)),
		ScoreStale:   stale,
		SubmittedAt:  full.SubmittedAt,
		Items:        items,
	}, nil
}

func (s *StudentService) notify(eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyStudentEvent(eventType, payload)
}

// ScorePercentage computes score/total*100 rounded to two decimals.
// Both the student results read and the teacher reports use this, so
// the two surfaces always agree.
func ScorePercentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*10000) / 100
}
