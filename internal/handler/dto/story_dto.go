package dto

import (
	"time"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
)

// ChoiceResponse is one answer option presented to a client.
type ChoiceResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuizItemResponse is one quiz question. The correct answer is never
// part of this shape; results carry correctness separately.
type QuizItemResponse struct {
	ID         uint             `json:"id"`
	QuizNumber int              `json:"quiz_number"`
	Question   string           `json:"question"`
	Choices    []ChoiceResponse `json:"choices"`
}

// StoryResponse is a story in API responses.
type StoryResponse struct {
	ID            uint               `json:"id"`
	Title         string             `json:"title"`
	Author        string             `json:"author,omitempty"`
	Description   string             `json:"description,omitempty"`
	MediaURL      string             `json:"media_url"`
	Subtitles     []string           `json:"subtitles"`
	CategoryID    uint               `json:"category_id"`
	CategoryName  string             `json:"category_name,omitempty"`
	QuizItemCount int                `json:"quiz_item_count"`
	QuizItems     []QuizItemResponse `json:"quiz_items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewQuizItemResponse builds the client shape of one quiz item.
func NewQuizItemResponse(item *entity.QuizItem) QuizItemResponse {
	choices := make([]ChoiceResponse, 0, len(item.Choices))
	for _, c := range item.Choices {
		choices = append(choices, ChoiceResponse{ID: c.ID, Text: c.Text})
	}
	return QuizItemResponse{
		ID:         item.ID,
		QuizNumber: item.QuizNumber,
		Question:   item.Question,
		Choices:    choices,
	}
}

// NewStoryResponse builds the client shape of a story. withQuiz controls
// whether quiz items are embedded (list views omit them).
func NewStoryResponse(story *entity.Story, withQuiz bool) *StoryResponse {
	resp := &StoryResponse{
		ID:            story.ID,
		Title:         story.Title,
		Author:        story.Author,
		Description:   story.Description,
		MediaURL:      story.MediaURL,
		Subtitles:     story.Subtitles,
		CategoryID:    story.CategoryID,
		QuizItemCount: story.QuizItemCount(),
		CreatedAt:     story.CreatedAt,
		UpdatedAt:     story.UpdatedAt,
	}
	if resp.Subtitles == nil {
		resp.Subtitles = []string{}
	}
	if story.Category != nil {
		resp.CategoryName = story.Category.Name
	}
	if withQuiz {
		items := make([]QuizItemResponse, 0, len(story.QuizItems))
		for i := range story.QuizItems {
			items = append(items, NewQuizItemResponse(&story.QuizItems[i]))
		}
		resp.QuizItems = items
	}
	return resp
}

// NewListStoryResponse builds the list shape without quiz bodies.
func NewListStoryResponse(stories []entity.Story) []*StoryResponse {
	out := make([]*StoryResponse, 0, len(stories))
	for i := range stories {
		out = append(out, NewStoryResponse(&stories[i], false))
	}
	return out
}

// PaginatedStoriesResponse wraps a story page with its total.
type PaginatedStoriesResponse struct {
	Stories []*StoryResponse `json:"stories"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}
