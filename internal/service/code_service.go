package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// codeAlphabet excludes characters that read ambiguously on a projector
// or a handout (I, L, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// maxGenerateAttempts bounds collision retries during code generation.
const maxGenerateAttempts = 10

// ResolvedCode is the cached outcome of an access-code lookup: enough
// to run the view gate without touching the story tables.
type ResolvedCode struct {
	CodeID  uint   `json:"code_id"`
	StoryID uint   `json:"story_id"`
	Code    string `json:"code"`
}

// CodeService resolves and manages access codes.
type CodeService struct {
	codeRepo   repository.CodeRepository
	storyRepo  repository.StoryRepository
	cacheRepo  repository.CacheRepository
	codeLength int
	cacheTTL   time.Duration
}

// NewCodeService creates a new code service. cacheRepo may be nil; the
// service then always reads through to Postgres.
func NewCodeService(
	codeRepo repository.CodeRepository,
	storyRepo repository.StoryRepository,
	cacheRepo repository.CacheRepository,
	codeLength int,
	cacheTTL time.Duration,
) *CodeService {
	if codeLength < entity.MinCodeLength {
		codeLength = 6
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CodeService{
		codeRepo:   codeRepo,
		storyRepo:  storyRepo,
		cacheRepo:  cacheRepo,
		codeLength: codeLength,
		cacheTTL:   cacheTTL,
	}
}

func codeCacheKey(code string) string {
	return "code:" + code
}

// Resolve normalizes a student-entered code and maps it to its story.
// Lookups are case-insensitive because the code is uppercased before
// both storage and search. Cache failures fall through to Postgres and
// are only logged.
func (s *CodeService) Resolve(raw string) (*ResolvedCode, error) {
	normalized := entity.NormalizeCode(raw)
	if !entity.IsValidCodeInput(normalized) {
		return nil, fmt.Errorf("%w: code must be at least %d alphanumeric characters", apperrors.ErrValidation, entity.MinCodeLength)
	}

	if s.cacheRepo != nil {
		var cached ResolvedCode
		err := s.cacheRepo.GetJSON(codeCacheKey(normalized), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[CodeService] cache read failed for %s: %v", normalized, err)
		}
	}

	code, err := s.codeRepo.GetActiveByCode(normalized)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedCode{CodeID: code.ID, StoryID: code.StoryID, Code: code.Code}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(codeCacheKey(normalized), resolved, s.cacheTTL); err != nil {
			log.Printf("[CodeService] cache write failed for %s: %v", normalized, err)
		}
	}

	return resolved, nil
}

// GetStoryForCode resolves the code and returns its story with quiz
// items and choices preloaded.
func (s *CodeService) GetStoryForCode(raw string) (*entity.Story, *ResolvedCode, error) {
	resolved, err := s.Resolve(raw)
	if err != nil {
		return nil, nil, err
	}
	story, err := s.storyRepo.GetWithQuiz(resolved.StoryID)
	if err != nil {
		return nil, nil, err
	}
	return story, resolved, nil
}

// Generate creates a fresh unique code bound to the story.
func (s *CodeService) Generate(storyID uint) (*entity.Code, error) {
	if _, err := s.storyRepo.GetByID(storyID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		candidate, err := randomCode(s.codeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		exists, err := s.codeRepo.Exists(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if exists {
			continue
		}

		code := &entity.Code{
			Code:    candidate,
			StoryID: storyID,
			Status:  entity.CodeStatusActive,
		}
		if err := s.codeRepo.Create(code); err != nil {
			return nil, fmt.Errorf("failed to create code: %w", err)
		}
		return code, nil
	}

	return nil, fmt.Errorf("could not generate a unique code after %d attempts", maxGenerateAttempts)
}

// SetStatus flips a code between active and inactive and drops it from
// the cache so the change takes effect immediately.
func (s *CodeService) SetStatus(id uint, status string) error {
	if status != entity.CodeStatusActive && status != entity.CodeStatusInactive {
		return fmt.Errorf("%w: unknown code status %q", apperrors.ErrValidation, status)
	}

	code, err := s.codeRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.codeRepo.UpdateStatus(id, status); err != nil {
		return err
	}

	s.invalidate(code.Code)
	return nil
}

// ListByStory returns the codes bound to a story.
func (s *CodeService) ListByStory(storyID uint) ([]entity.Code, error) {
	return s.codeRepo.ListByStory(storyID)
}

// Delete soft-deletes a code and drops it from the cache.
func (s *CodeService) Delete(id uint) error {
	code, err := s.codeRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.codeRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(code.Code)
	return nil
}

// InvalidateForStory drops the cached resolutions of every code bound
// to the story. Called when the story itself changes visibility
// (delete), since the cache would otherwise keep resolving its codes
// until the TTL runs out.
func (s *CodeService) InvalidateForStory(storyID uint) {
	if s.cacheRepo == nil {
		return
	}
	codes, err := s.codeRepo.ListByStory(storyID)
	if err != nil {
		log.Printf("[CodeService] cache invalidation: listing codes for story #%d failed: %v", storyID, err)
		return
	}
	for i := range codes {
		s.invalidate(codes[i].Code)
	}
}

func (s *CodeService) invalidate(code string) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(codeCacheKey(code)); err != nil {
		log.Printf("[CodeService] cache invalidation failed for %s: %v", code, err)
	}
}

// randomCode draws n characters from the code alphabet using crypto/rand.
func randomCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
