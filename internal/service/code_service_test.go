package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

func TestResolve_NormalizesBeforeLookup(t *testing.T) {
	codeRepo := new(MockCodeRepo)
	storyRepo := new(MockStoryRepo)
	svc := NewCodeService(codeRepo, storyRepo, nil, 6, time.Minute)

	codeRepo.On("GetActiveByCode", "AB12CD").
		Return(&entity.Code{ID: 1, Code: "AB12CD", StoryID: 9, Status: entity.CodeStatusActive}, nil)

	resolved, err := svc.Resolve("  ab12cd ")
	require.NoError(t, err)
	assert.Equal(t, uint(9), resolved.StoryID)
	codeRepo.AssertExpectations(t)
}

func TestResolve_RejectsMalformedInput(t *testing.T) {
	svc := NewCodeService(new(MockCodeRepo), new(MockStoryRepo), nil, 6, time.Minute)

	for _, raw := range []string{"", "ab", "AB!@CD", "abc"} {
		_, err := svc.Resolve(raw)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "input %q", raw)
	}
}

func TestResolve_CacheHitSkipsPostgres(t *testing.T) {
	codeRepo := new(MockCodeRepo)
	cache := new(MockCacheRepo)
	svc := NewCodeService(codeRepo, new(MockStoryRepo), cache, 6, time.Minute)

	cache.On("GetJSON", "code:AB12CD", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*ResolvedCode)
			*dest = ResolvedCode{CodeID: 1, StoryID: 9, Code: "AB12CD"}
		}).
		Return(nil)

	resolved, err := svc.Resolve("AB12CD")
	require.NoError(t, err)
	assert.Equal(t, uint(9), resolved.StoryID)
	codeRepo.AssertNotCalled(t, "GetActiveByCode", mock.Anything)
}

func TestResolve_CacheErrorFallsThrough(t *testing.T) {
	codeRepo := new(MockCodeRepo)
	cache := new(MockCacheRepo)
	svc := NewCodeService(codeRepo, new(MockStoryRepo), cache, 6, time.Minute)

	cache.On("GetJSON", "code:AB12CD", mock.Anything).Return(assert.AnError)
	codeRepo.On("GetActiveByCode", "AB12CD").
		Return(&entity.Code{ID: 1, Code: "AB12CD", StoryID: 9, Status: entity.CodeStatusActive}, nil)
	cache.On("SetJSON", "code:AB12CD", mock.Anything, time.Minute).Return(nil)

	resolved, err := svc.Resolve("AB12CD")
	require.NoError(t, err)
	assert.Equal(t, uint(9), resolved.StoryID)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	codeRepo := new(MockCodeRepo)
	storyRepo := new(MockStoryRepo)
	svc := NewCodeService(codeRepo, storyRepo, nil, 6, time.Minute)

	storyRepo.On("GetByID", uint(9)).Return(&entity.Story{ID: 9}, nil)
	codeRepo.On("Exists", mock.Anything).Return(true, nil).Once()
	codeRepo.On("Exists", mock.Anything).Return(false, nil).Once()
	codeRepo.On("Create", mock.MatchedBy(func(c *entity.Code) bool {
		return c.StoryID == 9 && c.Status == entity.CodeStatusActive && len(c.Code) == 6
	})).Return(nil)

	code, err := svc.Generate(9)
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)
	for _, r := range code.Code {
		assert.Contains(t, codeAlphabet, string(r))
	}
	codeRepo.AssertExpectations(t)
}

func TestGenerate_UnknownStory(t *testing.T) {
	storyRepo := new(MockStoryRepo)
	svc := NewCodeService(new(MockCodeRepo), storyRepo, nil, 6, time.Minute)

	storyRepo.On("GetByID", uint(404)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.Generate(404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetStatus_InvalidatesCache(t *testing.T) {
	codeRepo := new(MockCodeRepo)
	cache := new(MockCacheRepo)
	svc := NewCodeService(codeRepo, new(MockStoryRepo), cache, 6, time.Minute)

	codeRepo.On("GetByID", uint(1)).Return(&entity.Code{ID: 1, Code: "AB12CD"}, nil)
	codeRepo.On("UpdateStatus", uint(1), entity.CodeStatusInactive).Return(nil)
	cache.On("Delete", "code:AB12CD").Return(nil)

	require.NoError(t, svc.SetStatus(1, entity.CodeStatusInactive))
	cache.AssertExpectations(t)
}

func TestInvalidateForStory_DropsEveryCode(t *testing.T) {
	codeRepo := new(MockCodeRepo)
	cache := new(MockCacheRepo)
	svc := NewCodeService(codeRepo, new(MockStoryRepo), cache, 6, time.Minute)

	codeRepo.On("ListByStory", uint(9)).Return([]entity.Code{
		{ID: 1, Code: "AB12CD", StoryID: 9},
		{ID: 2, Code: "EF34GH", StoryID: 9},
	}, nil)
	cache.On("Delete", "code:AB12CD").Return(nil)
	cache.On("Delete", "code:EF34GH").Return(nil)

	svc.InvalidateForStory(9)
	cache.AssertExpectations(t)
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	svc := NewCodeService(new(MockCodeRepo), new(MockStoryRepo), nil, 6, time.Minute)
	assert.ErrorIs(t, svc.SetStatus(1, "archived"), apperrors.ErrValidation)
}
