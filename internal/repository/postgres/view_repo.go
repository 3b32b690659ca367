package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
)

// ViewRepo implements repository.ViewRepository.
type ViewRepo struct {
	db *gorm.DB
}

// NewViewRepo creates a new story-view repository.
func NewViewRepo(db *gorm.DB) *ViewRepo {
	return &ViewRepo{db: db}
}

// Upsert inserts the view or bumps viewed_at when the identity tuple
// already has a row. ON CONFLICT targets the composite unique index, so
// a re-view never duplicates.
func (r *ViewRepo) Upsert(view *entity.StudentStoryView) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "code_id"}, {Name: "story_id"},
			{Name: "full_name"}, {Name: "section"}, {Name: "device_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at", "updated_at"}),
	}).Create(view).Error
}

// Exists checks for a view matching the full identity tuple.
func (r *ViewRepo) Exists(codeID, storyID uint, fullName, section, deviceID string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.StudentStoryView{}).
		Where("code_id = ? AND story_id = ? AND full_name = ? AND section = ? AND device_id = ?",
			codeID, storyID, fullName, section, deviceID).
		Count(&count).Error
	return count > 0, err
}

// ExistsAnyDevice checks without the device ID, for sessions recorded
// before devices were tracked.
func (r *ViewRepo) ExistsAnyDevice(codeID, storyID uint, fullName, section string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.StudentStoryView{}).
		Where("code_id = ? AND story_id = ? AND full_name = ? AND section = ?",
			codeID, storyID, fullName, section).
		Count(&count).Error
	return count > 0, err
}

// ListByCode returns all views recorded for the code, newest first.
func (r *ViewRepo) ListByCode(codeID uint) ([]entity.StudentStoryView, error) {
	var views []entity.StudentStoryView
	err := r.db.Where("code_id = ?", codeID).
		Order("viewed_at DESC").
		Find(&views).Error
	return views, err
}

// StudentLog joins views with submissions on (full_name, section) in
// SQL, replacing the in-memory scan of the old implementation.
func (r *ViewRepo) StudentLog(codeID uint) ([]repository.StudentLogRow, error) {
	var rows []repository.StudentLogRow
	sql := `
	SELECT
	    v.full_name,
	    v.section,
	    v.device_id,
	    v.viewed_at,
	    s.id           AS submission_id,
	    s.score        AS score,
	    s.submitted_at AS submitted_at
	FROM student_story_views v
	LEFT JOIN student_submissions s
	    ON s.code_id = v.code_id
	   AND s.full_name = v.full_name
	   AND s.section = v.section
	   AND s.deleted_at IS NULL
	WHERE v.code_id = ?
	ORDER BY v.viewed_at DESC;`

	err := r.db.Raw(sql, codeID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
