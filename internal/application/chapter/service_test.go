package chapter

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
	apperrors "storyloom-api/pkg/errors"
)

type memStoryRepo struct {
	stories map[string]*entity.Story
}

func (r *memStoryRepo) Create(ctx context.Context, s *entity.Story) error {
	r.stories[s.ID] = s
	return nil
}

func (r *memStoryRepo) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	return r.stories[id], nil
}

func (r *memStoryRepo) GetByIDAndAuthor(ctx context.Context, id, authorID string) (*entity.Story, error) {
	s, ok := r.stories[id]
	if !ok || s.AuthorID != authorID {
		return nil, nil
	}
	return s, nil
}

func (r *memStoryRepo) ListByAuthor(ctx context.Context, authorID string, p repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	return repository.NewPagedResult([]*entity.Story{}, 0, p), nil
}

func (r *memStoryRepo) Update(ctx context.Context, s *entity.Story) error     { return nil }
func (r *memStoryRepo) UpdateSummary(ctx context.Context, id, s string) error { return nil }
func (r *memStoryRepo) Delete(ctx context.Context, id string) error           { return nil }

type memChapterRepo struct {
	mu       sync.Mutex
	chapters map[string]*entity.Chapter
	seq      int
}

func (r *memChapterRepo) Create(ctx context.Context, ch *entity.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.chapters {
		if existing.StoryID == ch.StoryID && existing.Position == ch.Position {
			return apperrors.ErrPositionTaken
		}
	}
	r.seq++
	ch.ID = fmt.Sprintf("ch-%d", r.seq)
	r.chapters[ch.ID] = ch
	return nil
}

func (r *memChapterRepo) GetByID(ctx context.Context, id string) (*entity.Chapter, error) {
	return r.chapters[id], nil
}

func (r *memChapterRepo) ListByStory(ctx context.Context, storyID string) ([]*entity.Chapter, error) {
	out := make([]*entity.Chapter, 0)
	for _, ch := range r.chapters {
		if ch.StoryID == storyID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (r *memChapterRepo) ExistsAtPosition(ctx context.Context, storyID string, position int) (bool, error) {
	for _, ch := range r.chapters {
		if ch.StoryID == storyID && ch.Position == position {
			return true, nil
		}
	}
	return false, nil
}

func (r *memChapterRepo) Update(ctx context.Context, ch *entity.Chapter) error {
	r.chapters[ch.ID] = ch
	return nil
}

func (r *memChapterRepo) Delete(ctx context.Context, id string) error {
	delete(r.chapters, id)
	return nil
}

func (r *memChapterRepo) DeleteByStory(ctx context.Context, storyID string) error { return nil }

type memCharacterRepo struct {
	characters map[string]*entity.Character
}

func (r *memCharacterRepo) Create(ctx context.Context, c *entity.Character) error {
	r.characters[c.ID] = c
	return nil
}

func (r *memCharacterRepo) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	return r.characters[id], nil
}

func (r *memCharacterRepo) ListByStory(ctx context.Context, storyID string) ([]*entity.Character, error) {
	return nil, nil
}

func (r *memCharacterRepo) CountByStory(ctx context.Context, storyID string) (int64, error) {
	return 0, nil
}

func (r *memCharacterRepo) Update(ctx context.Context, c *entity.Character) error { return nil }
func (r *memCharacterRepo) Delete(ctx context.Context, id string) error { return nil }
func (r *memCharacterRepo) DeleteByStory(ctx context.Context, id string) error { return nil }

// passthroughTx 直接执行回调，不起真实事务
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newChapterService() (*Service, *memStoryRepo, *memChapterRepo, *memCharacterRepo) {
	stories := &memStoryRepo{stories: map[string]*entity.Story{}}
	chapters := &memChapterRepo{chapters: map[string]*entity.Chapter{}}
	characters := &memCharacterRepo{characters: map[string]*entity.Character{}}
	return NewService(stories, chapters, characters, passthroughTx{}), stories, chapters, characters
}

func seedStory(stories *memStoryRepo) *entity.Story {
	story := entity.NewStory("author-1", "Title", "fantasy")
	story.ID = "story-1"
	stories.stories[story.ID] = story
	return story
}

func TestChapterCreate_PositionConflict(t *testing.T) {
	svc, stories, _, _ := newChapterService()
	story := seedStory(stories)
	ctx := context.Background()

	_, err := svc.Create(ctx, "author-1", story.ID, "One", "text", 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "author-1", story.ID, "Again", "text", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePositionTaken))
}

func TestChapterCreate_ForeignStoryNotFound(t *testing.T) {
	svc, stories, _, _ := newChapterService()
	story := seedStory(stories)

	_, err := svc.Create(context.Background(), "someone-else", story.ID, "One", "text", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStoryNotFound))
}

func TestChapterCreate_Validation(t *testing.T) {
	svc, stories, _, _ := newChapterService()
	story := seedStory(stories)
	ctx := context.Background()

	_, err := svc.Create(ctx, "author-1", story.ID, "  ", "text", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))

	_, err = svc.Create(ctx, "author-1", story.ID, "One", "text", 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
}

func TestChapterUpdate_LinksCharactersOfSameStory(t *testing.T) {
	svc, stories, _, characters := newChapterService()
	story := seedStory(stories)
	ctx := context.Background()

	ch, err := svc.Create(ctx, "author-1", story.ID, "One", "text", 1)
	require.NoError(t, err)

	mira := entity.NewCharacter(story.ID, "Mira", "tall", "an exile")
	mira.ID = "char-1"
	characters.characters[mira.ID] = mira

	updated, err := svc.Update(ctx, "author-1", story.ID, ch.ID, "One revised", "new text", []string{"char-1"})
	require.NoError(t, err)
	assert.Equal(t, "One revised", updated.Title)
	require.Len(t, updated.Characters, 1)
	assert.Equal(t, "Mira", updated.Characters[0].Name)
}

func TestChapterUpdate_RejectsForeignCharacter(t *testing.T) {
	svc, stories, _, characters := newChapterService()
	story := seedStory(stories)
	ctx := context.Background()

	ch, err := svc.Create(ctx, "author-1", story.ID, "One", "text", 1)
	require.NoError(t, err)

	// 角色属于别的故事，关联必须拒绝
	stranger := entity.NewCharacter("story-2", "Ghost", "pale", "unknown")
	stranger.ID = "char-9"
	characters.characters[stranger.ID] = stranger

	_, err = svc.Update(ctx, "author-1", story.ID, ch.ID, "", "", []string{"char-9"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeCharacterNotFound))
}

func TestChapterGet_WrongStoryNotFound(t *testing.T) {
	svc, stories, chapters, _ := newChapterService()
	story := seedStory(stories)

	other := entity.NewChapter("story-2", "Elsewhere", "text", 1)
	other.ID = "ch-x"
	chapters.chapters[other.ID] = other

	_, err := svc.Get(context.Background(), "author-1", story.ID, "ch-x")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeChapterNotFound))
}
