package dto

import (
	"time"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
)

// CodeResponse is an access code in API responses.
type CodeResponse struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	StoryID   uint      `json:"story_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCodeResponse builds the client shape of a code.
func NewCodeResponse(code *entity.Code) *CodeResponse {
	return &CodeResponse{
		ID:        code.ID,
		Code:      code.Code,
		StoryID:   code.StoryID,
		Status:    code.Status,
		CreatedAt: code.CreatedAt,
	}
}

// NewListCodeResponse builds the list shape of codes.
func NewListCodeResponse(codes []entity.Code) []*CodeResponse {
	out := make([]*CodeResponse, 0, len(codes))
	for i := range codes {
		out = append(out, NewCodeResponse(&codes[i]))
	}
	return out
}

// StoryAccessResponse is what a student receives after entering a valid
// code: the story plus the code it resolved through.
type StoryAccessResponse struct {
	Code  string         `json:"code"`
	Story *StoryResponse `json:"story"`
}

// SubmissionResponse is the immediate acknowledgement of a quiz submit.
type SubmissionResponse struct {
	SubmissionID uint      `json:"submission_id"`
	Score        int       `json:"score"`
	TotalItems   int       `json:"total_items"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// UserResponse is a staff mirror record in API responses.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse builds the client shape of a staff record.
func NewUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}

// NewListUserResponse builds the list shape of staff records.
func NewListUserResponse(users []entity.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
