package service

import (
	"time"

	"github.com/yourusername/storyquiz-api/internal/domain/repository"
)

// WeekMetric is one dashboard number with its week-over-week delta.
type WeekMetric struct {
	ThisWeek int64 `json:"this_week"`
	LastWeek int64 `json:"last_week"`
	Delta    int64 `json:"delta"`
}

// ScoreMetric is the average score percentage with its delta. HasData
// distinguishes "no submissions" from an actual zero average.
type ScoreMetric struct {
	ThisWeek float64 `json:"this_week"`
	LastWeek float64 `json:"last_week"`
	Delta    float64 `json:"delta"`
	HasData  bool    `json:"has_data"`
}

// DashboardStats is the staff dashboard summary.
type DashboardStats struct {
	WeekStart    time.Time   `json:"week_start"`
	Stories      WeekMetric  `json:"stories"`
	Codes        WeekMetric  `json:"codes"`
	Submissions  WeekMetric  `json:"submissions"`
	AverageScore ScoreMetric `json:"average_score"`
}

// CodeResultRow is one student in the per-code results roster.
type CodeResultRow struct {
	SubmissionID uint      `json:"submission_id"`
	FullName     string    `json:"full_name"`
	Section      string    `json:"section"`
	Score        int       `json:"score"`
	TotalItems   int       `json:"total_items"`
	Percentage   float64   `json:"percentage"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// CodeResults is the roster of submissions for one access code.
type CodeResults struct {
	CodeID     uint            `json:"code_id"`
	Code       string          `json:"code"`
	StoryID    uint            `json:"story_id"`
	StoryTitle string          `json:"story_title"`
	TotalItems int             `json:"total_items"`
	Rows       []CodeResultRow `json:"rows"`
}

// ReportService builds the teacher-facing reporting reads.
type ReportService struct {
	codes     *CodeService
	storyRepo repository.StoryRepository
	codeRepo  repository.CodeRepository
	viewRepo  repository.ViewRepository
	subRepo   repository.SubmissionRepository
	// now is swappable for tests.
	now func() time.Time
}

// NewReportService creates a new report service.
func NewReportService(
	codes *CodeService,
	storyRepo repository.StoryRepository,
	codeRepo repository.CodeRepository,
	viewRepo repository.ViewRepository,
	subRepo repository.SubmissionRepository,
) *ReportService {
	return &ReportService{
		codes:     codes,
		storyRepo: storyRepo,
		codeRepo:  codeRepo,
		viewRepo:  viewRepo,
		subRepo:   subRepo,
		now:       time.Now,
	}
}

// startOfWeek truncates t to midnight of its week's Sunday in t's
// location. Weeks run Sunday through Saturday.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// GetDashboardStats computes this week's creation counts and average
// score against last week's.
func (s *ReportService) GetDashboardStats() (*DashboardStats, error) {
	now := s.now()
	thisWeekStart := startOfWeek(now)
	lastWeekStart := thisWeekStart.AddDate(0, 0, -7)

	stories, err := s.weekMetric(s.storyRepo.CountCreatedBetween, thisWeekStart, lastWeekStart, now)
	if err != nil {
		return nil, err
	}
	codes, err := s.weekMetric(s.codeRepo.CountCreatedBetween, thisWeekStart, lastWeekStart, now)
	if err != nil {
		return nil, err
	}
	submissions, err := s.weekMetric(s.subRepo.CountCreatedBetween, thisWeekStart, lastWeekStart, now)
	if err != nil {
		return nil, err
	}

	thisAvg, thisHas, err := s.subRepo.AverageScorePercent(thisWeekStart, now)
	if err != nil {
		return nil, err
	}
	lastAvg, lastHas, err := s.subRepo.AverageScorePercent(lastWeekStart, thisWeekStart)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		WeekStart:   thisWeekStart,
		Stories:     stories,
		Codes:       codes,
		Submissions: submissions,
		AverageScore: ScoreMetric{
			ThisWeek: thisAvg,
			LastWeek: lastAvg,
			Delta:    thisAvg - lastAvg,
			HasData:  thisHas || lastHas,
		},
	}, nil
}

func (s *ReportService) weekMetric(
	count func(from, to time.Time) (int64, error),
	thisWeekStart, lastWeekStart, now time.Time,
) (WeekMetric, error) {
	thisWeek, err := count(thisWeekStart, now)
	if err != nil {
		return WeekMetric{}, err
	}
	lastWeek, err := count(lastWeekStart, thisWeekStart)
	if err != nil {
		return WeekMetric{}, err
	}
	return WeekMetric{ThisWeek: thisWeek, LastWeek: lastWeek, Delta: thisWeek - lastWeek}, nil
}

// GetStudentLog returns the per-code view/submission log, one row per
// student view joined with the matching submission when one exists.
func (s *ReportService) GetStudentLog(codeID uint) ([]repository.StudentLogRow, error) {
	if _, err := s.codeRepo.GetByID(codeID); err != nil {
		return nil, err
	}
	return s.viewRepo.StudentLog(codeID)
}

// GetCodeResults builds the submissions roster for one code, with the
// percentage computed against the story's current quiz size.
func (s *ReportService) GetCodeResults(codeID uint) (*CodeResults, error) {
	code, err := s.codeRepo.GetByID(codeID)
	if err != nil {
		return nil, err
	}
	story, err := s.storyRepo.GetWithQuiz(code.StoryID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.subRepo.ListByCode(codeID)
	if err != nil {
		return nil, err
	}

	total := story.QuizItemCount()
	rows := make([]CodeResultRow, 0, len(submissions))
	for _, sub := range submissions {
		rows = append(rows, CodeResultRow{
			SubmissionID: sub.ID,
			FullName:     sub.FullName,
			Section:      sub.Section,
			Score:        sub.Score,
			TotalItems:   total,
			Percentage:   ScorePercentage(sub.Score, total),
			SubmittedAt:  sub.SubmittedAt,
		})
	}

	return &CodeResults{
		CodeID:     code.ID,
		Code:       code.Code,
		StoryID:    story.ID,
		StoryTitle: story.Title,
		TotalItems: total,
		Rows:       rows,
	}, nil
}

// GetSubmissionDetail returns one submission's per-question breakdown
// for the teacher view. It reuses the student results read but is keyed
// by submission ID instead of the cookie identity.
func (s *ReportService) GetSubmissionDetail(submissionID uint) (*SubmissionResults, error) {
	full, err := s.subRepo.GetWithAnswers(submissionID)
	if err != nil {
		return nil, err
	}
	story, err := s.storyRepo.GetWithQuiz(full.StoryID)
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

	return &SubmissionResults{
		SubmissionID: full.ID,
		FullName:     full.FullName,
		Section:      full.Section,
		Score:        full.Score,
		TotalItems:   len(story.QuizItems),
		Percentage:   ScorePercentage(full.Score, len(story.QuizItems)),
		ScoreStale:   recomputed != full.Score,
		SubmittedAt:  full.SubmittedAt,
		Items:        items,
	}, nil
}
