package repository

import "errors"

var (
	// ErrDuplicateSubmission means a non-deleted submission already exists
	// for the (code, full name, section) identity. Produced by the partial
	// unique index on student_submissions, so two concurrent submits
	// cannot both land.
	ErrDuplicateSubmission = errors.New("quiz already submitted for this student")

	// ErrCategoryInUse means the category still has non-deleted stories
	// and cannot be deleted.
	ErrCategoryInUse = errors.New("category still has stories")
)
