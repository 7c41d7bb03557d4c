package generation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
	apperrors "storyloom-api/pkg/errors"
)

// fakeChatModel 按队列回放脚本化的模型输出
type fakeChatModel struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, input)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, errors.New("fake model: no scripted response left")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return schema.AssistantMessage(resp, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("fake model: streaming not supported")
}

// lastPromptContent 返回第 n 次调用的用户消息内容，便于断言提示词组装
func (f *fakeChatModel) promptContent(call int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if call >= len(f.calls) {
		return ""
	}
	var out string
	for _, msg := range f.calls[call] {
		out += msg.Content + "\n"
	}
	return out
}

type fakeFactory struct {
	model *fakeChatModel
}

func (f *fakeFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return f.model, nil
}

// fakeStoryRepo 内存故事仓储
type fakeStoryRepo struct {
	mu      sync.Mutex
	stories map[string]*entity.Story
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: map[string]*entity.Story{}}
}

func (r *fakeStoryRepo) Create(ctx context.Context, story *entity.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if story.ID == "" {
		story.ID = fmt.Sprintf("story-%d", len(r.stories)+1)
	}
	r.stories[story.ID] = story
	return nil
}

func (r *fakeStoryRepo) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stories[id], nil
}

func (r *fakeStoryRepo) GetByIDAndAuthor(ctx context.Context, id, authorID string) (*entity.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok || s.AuthorID != authorID {
		return nil, nil
	}
	return s, nil
}

func (r *fakeStoryRepo) ListByAuthor(ctx context.Context, authorID string, p repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*entity.Story, 0)
	for _, s := range r.stories {
		if s.AuthorID == authorID {
			items = append(items, s)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

func (r *fakeStoryRepo) Update(ctx context.Context, story *entity.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories[story.ID] = story
	return nil
}

func (r *fakeStoryRepo) UpdateSummary(ctx context.Context, id, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return errors.New("story not found")
	}
	s.Summary = summary
	return nil
}

func (r *fakeStoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stories, id)
	return nil
}

// fakeChapterRepo 内存章节仓储，(story_id, position) 唯一
type fakeChapterRepo struct {
	mu       sync.Mutex
	chapters map[string]*entity.Chapter
	seq      int
}

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{chapters: map[string]*entity.Chapter{}}
}

func (r *fakeChapterRepo) Create(ctx context.Context, chapter *entity.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.chapters {
		if ch.StoryID == chapter.StoryID && ch.Position == chapter.Position {
			return apperrors.ErrPositionTaken
		}
	}
	r.seq++
	if chapter.ID == "" {
		chapter.ID = fmt.Sprintf("chapter-%d", r.seq)
	}
	r.chapters[chapter.ID] = chapter
	return nil
}

func (r *fakeChapterRepo) GetByID(ctx context.Context, id string) (*entity.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chapters[id], nil
}

func (r *fakeChapterRepo) ListByStory(ctx context.Context, storyID string) ([]*entity.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*entity.Chapter, 0)
	for _, ch := range r.chapters {
		if ch.StoryID == storyID {
			items = append(items, ch)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

func (r *fakeChapterRepo) ExistsAtPosition(ctx context.Context, storyID string, position int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.chapters {
		if ch.StoryID == storyID && ch.Position == position {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeChapterRepo) Update(ctx context.Context, chapter *entity.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chapters[chapter.ID] = chapter
	return nil
}

func (r *fakeChapterRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chapters, id)
	return nil
}

func (r *fakeChapterRepo) DeleteByStory(ctx context.Context, storyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.chapters {
		if ch.StoryID == storyID {
			delete(r.chapters, id)
		}
	}
	return nil
}

// fakeCharacterRepo 内存角色仓储
type fakeCharacterRepo struct {
	mu         sync.Mutex
	characters map[string]*entity.Character
	seq        int
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{characters: map[string]*entity.Character{}}
}

func (r *fakeCharacterRepo) Create(ctx context.Context, character *entity.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if character.ID == "" {
		character.ID = fmt.Sprintf("character-%d", r.seq)
	}
	r.characters[character.ID] = character
	return nil
}

func (r *fakeCharacterRepo) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.characters[id], nil
}

func (r *fakeCharacterRepo) ListByStory(ctx context.Context, storyID string) ([]*entity.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*entity.Character, 0)
	for _, c := range r.characters {
		if c.StoryID == storyID {
			items = append(items, c)
		}
	}
	return items, nil
}

func (r *fakeCharacterRepo) CountByStory(ctx context.Context, storyID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.characters {
		if c.StoryID == storyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCharacterRepo) Update(ctx context.Context, character *entity.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.characters[character.ID] = character
	return nil
}

func (r *fakeCharacterRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.characters, id)
	return nil
}

func (r *fakeCharacterRepo) DeleteByStory(ctx context.Context, storyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.characters {
		if c.StoryID == storyID {
			delete(r.characters, id)
		}
	}
	return nil
}
