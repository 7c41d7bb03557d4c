package generation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyloom-api/internal/config"
	"storyloom-api/internal/domain/entity"
	wfmodel "storyloom-api/internal/workflow/model"
	apperrors "storyloom-api/pkg/errors"
)

const (
	testAuthor = "author-1"
	otherUser  = "author-2"
)

var (
	interviewJSON = `{"questions":[{"question":"Q1"},{"question":"Q2"},{"question":"Q3"},{"question":"Q4"},{"question":"Q5"}]}`
	outlineJSON   = `{"chapters":[{"chapter_number":1,"chapter_title":"One"},{"chapter_number":2,"chapter_title":"Two"},{"chapter_number":3,"chapter_title":"Three"}]}`
	rosterJSON    = `{"characters":[{"name":"Mira","appearance":"tall, scarred","biography":"an exiled cartographer"}]}`
	summaryJSON   = `{"summary":"An exile maps a dying kingdom."}`
	titlesJSON    = `{"titles":["T1","T2","T3","T4","T5"]}`
)

type testEnv struct {
	resolver   *StepResolver
	model      *fakeChatModel
	stories    *fakeStoryRepo
	chapters   *fakeChapterRepo
	characters *fakeCharacterRepo
	story      *entity.Story
}

func newTestEnv(t *testing.T, responses ...string) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Generation: config.GenerationConfig{
			InterviewQuestionCount: 5,
			OutlineChapterCount:    3,
			DraftMemoryMaxRunes:    4800,
			TitleCandidateCount:    5,
		},
	}

	chatModel := &fakeChatModel{responses: responses}
	stories := newFakeStoryRepo()
	chapters := newFakeChapterRepo()
	characters := newFakeCharacterRepo()

	story := entity.NewStory(testAuthor, "Working Title", "fantasy")
	story.ID = "story-1"
	require.NoError(t, stories.Create(context.Background(), story))

	return &testEnv{
		resolver:   NewStepResolver(cfg, &fakeFactory{model: chatModel}, stories, chapters, characters),
		model:      chatModel,
		stories:    stories,
		chapters:   chapters,
		characters: characters,
		story:      story,
	}
}

func validOutline() *wfmodel.Outline {
	return &wfmodel.Outline{Chapters: []wfmodel.OutlineChapter{
		{ChapterNumber: 1, ChapterTitle: "One"},
		{ChapterNumber: 2, ChapterTitle: "Two"},
		{ChapterNumber: 3, ChapterTitle: "Three"},
	}}
}

func validRoster() *wfmodel.CharacterSet {
	return &wfmodel.CharacterSet{Characters: []wfmodel.CharacterDraft{
		{Name: "Mira", Appearance: "tall, scarred", Biography: "an exiled cartographer"},
	}}
}

func mergedQA() []string {
	qa := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		qa = append(qa, fmt.Sprintf("Q: Q%d\nA: A%d", i, i))
	}
	return qa
}

func TestResolve_UnknownStep(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: 7, StateVersion: StateVersion, StoryID: env.story.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidStep), "got %v", err)
}

func TestResolve_MissingStoryID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepInterview, StateVersion: StateVersion, Message: "a topic",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
}

func TestResolve_ForeignStoryReportsNotFound(t *testing.T) {
	env := newTestEnv(t, interviewJSON)

	// 非属主访问与不存在一样报 not found，不泄露存在性
	_, err := env.resolver.Resolve(context.Background(), otherUser, &Input{
		Step: StepInterview, StateVersion: StateVersion, StoryID: env.story.ID, Message: "a topic",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStoryNotFound))

	_, err = env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepInterview, StateVersion: StateVersion, StoryID: "no-such-story", Message: "a topic",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStoryNotFound))
}

func TestResolve_InterviewStep(t *testing.T) {
	env := newTestEnv(t, interviewJSON)

	out, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepInterview, StateVersion: StateVersion, StoryID: env.story.ID,
		Message: "a heist in a floating city",
	})
	require.NoError(t, err)

	assert.Equal(t, StepOutline, out.Step)
	assert.Equal(t, StateVersion, out.StateVersion)
	assert.Equal(t, env.story.ID, out.StoryID)
	assert.Equal(t, "a heist in a floating city", out.Topic)
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, out.InterviewQuestions)
}

func TestResolve_InterviewRequiresTopic(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepInterview, StateVersion: StateVersion, StoryID: env.story.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
}

func TestResolve_InterviewModelCountOutOfContract(t *testing.T) {
	short := `{"questions":[{"question":"Q1"},{"question":"Q2"}]}`
	env := newTestEnv(t, short)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepInterview, StateVersion: StateVersion, StoryID: env.story.ID, Message: "topic",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamGeneration), "got %v", err)
}

func TestResolve_OutlineAnswerCountMismatch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepOutline, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"},
		Answers:            "A1\nA2\nA3",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
	assert.Contains(t, err.Error(), "answer count mismatch")
}

func TestResolve_OutlineStep(t *testing.T) {
	env := newTestEnv(t, outlineJSON)

	out, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepOutline, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"},
		Answers:            "A1\nA2\nA3\nA4\nA5",
	})
	require.NoError(t, err)

	assert.Equal(t, StepCharacters, out.Step)
	require.NotNil(t, out.OutlineResult)
	assert.Len(t, out.OutlineResult.Chapters, 3)

	// 问题与答案按位置合并后回传
	require.Len(t, out.InterviewQuestions, 5)
	assert.Equal(t, "Q: Q1\nA: A1", out.InterviewQuestions[0])
	assert.Equal(t, "Q: Q5\nA: A5", out.InterviewQuestions[4])
}

func TestResolve_OutlineModelBadNumbering(t *testing.T) {
	bad := `{"chapters":[{"chapter_number":1,"chapter_title":"One"},{"chapter_number":2,"chapter_title":"Two"},{"chapter_number":2,"chapter_title":"Dup"}]}`
	env := newTestEnv(t, bad)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepOutline, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"},
		Answers:            "A1\nA2\nA3\nA4\nA5",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSchemaViolation), "got %v", err)
}

func TestResolve_CharactersStep(t *testing.T) {
	env := newTestEnv(t, rosterJSON)

	out, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepCharacters, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: mergedQA(),
		OutlineResult:      validOutline(),
	})
	require.NoError(t, err)

	assert.Equal(t, StepDrafting, out.Step)
	require.NotNil(t, out.CharacterResult)
	require.Len(t, out.CharacterResult.Characters, 1)
	assert.Equal(t, "Mira", out.CharacterResult.Characters[0].Name)

	// 角色即时入库
	n, err := env.characters.CountByStory(context.Background(), env.story.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestResolve_CharactersCannotRerun(t *testing.T) {
	env := newTestEnv(t, rosterJSON)

	in := &Input{
		Step: StepCharacters, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: mergedQA(),
		OutlineResult:      validOutline(),
	}
	_, err := env.resolver.Resolve(context.Background(), testAuthor, in)
	require.NoError(t, err)

	_, err = env.resolver.Resolve(context.Background(), testAuthor, in)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
	assert.Contains(t, err.Error(), "cannot be re-run")
}

func TestResolve_CharactersRejectTamperedOutline(t *testing.T) {
	env := newTestEnv(t)

	tampered := validOutline()
	tampered.Chapters[1].ChapterNumber = 5

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepCharacters, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: mergedQA(),
		OutlineResult:      tampered,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
}

func TestResolve_DraftingStep(t *testing.T) {
	env := newTestEnv(t, "Draft one text", "Draft two text", "Draft three text")

	out, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepDrafting, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: mergedQA(),
		OutlineResult:      validOutline(),
		CharacterResult:    validRoster(),
	})
	require.NoError(t, err)

	assert.Equal(t, StepSummary, out.Step)
	assert.Equal(t, []string{"Draft one text", "Draft two text", "Draft three text"}, out.Stories)

	// 章节按大纲位置持久化
	chapters, err := env.chapters.ListByStory(context.Background(), env.story.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, "One", chapters[0].Title)
	assert.Equal(t, 1, chapters[0].Position)
	assert.Equal(t, "Draft one text", chapters[0].Content)
	assert.Equal(t, 3, chapters[2].Position)
}

func TestResolve_DraftingMemoryFeedsNextChapter(t *testing.T) {
	env := newTestEnv(t, "Draft one text", "Draft two text", "Draft three text")

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepDrafting, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: mergedQA(),
		OutlineResult:      validOutline(),
		CharacterResult:    validRoster(),
	})
	require.NoError(t, err)

	// 第一章的提示里没有任何已生成文本
	first := env.model.promptContent(0)
	assert.NotContains(t, first, "Draft one text")

	// 第二章的提示携带第一章的生成文本
	second := env.model.promptContent(1)
	assert.Contains(t, second, "Draft one text")

	// 第三章的提示携带前两章
	third := env.model.promptContent(2)
	assert.Contains(t, third, "Draft one text")
	assert.Contains(t, third, "Draft two text")
}

func TestResolve_DraftingPositionTaken(t *testing.T) {
	env := newTestEnv(t)

	// 第 2 位已被占用，生成开始前直接拒绝
	occupied := entity.NewChapter(env.story.ID, "Existing", "text", 2)
	require.NoError(t, env.chapters.Create(context.Background(), occupied))

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepDrafting, StateVersion: StateVersion, StoryID: env.story.ID,
		Topic:              "topic",
		InterviewQuestions: mergedQA(),
		OutlineResult:      validOutline(),
		CharacterResult:    validRoster(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePositionTaken), "got %v", err)

	// 没有触发任何模型调用
	assert.Equal(t, "", env.model.promptContent(0))
}

func TestResolve_SummaryStep(t *testing.T) {
	env := newTestEnv(t, summaryJSON)

	for i := 1; i <= 3; i++ {
		ch := entity.NewChapter(env.story.ID, fmt.Sprintf("C%d", i), fmt.Sprintf("content %d", i), i)
		require.NoError(t, env.chapters.Create(context.Background(), ch))
	}

	out, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepSummary, StateVersion: StateVersion, StoryID: env.story.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, StepTitles, out.Step)
	assert.Equal(t, "An exile maps a dying kingdom.", out.Summary)

	// 摘要写回故事行
	assert.Equal(t, "An exile maps a dying kingdom.", env.story.Summary)

	// 提示词包含全部章节正文
	prompt := env.model.promptContent(0)
	assert.Contains(t, prompt, "content 1")
	assert.Contains(t, prompt, "content 3")
}

func TestResolve_SummaryWithoutChapters(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepSummary, StateVersion: StateVersion, StoryID: env.story.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
}

func TestResolve_TitlesStep(t *testing.T) {
	env := newTestEnv(t, titlesJSON)
	env.story.Summary = "An exile maps a dying kingdom."

	out, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepTitles, StateVersion: StateVersion, StoryID: env.story.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"T1", "T2", "T3", "T4", "T5"}, out.Titles)
	// 一轮结束，计步回到起点
	assert.Equal(t, StepInterview, out.Step)
}

func TestResolve_TitlesWithoutSummary(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.resolver.Resolve(context.Background(), testAuthor, &Input{
		Step: StepTitles, StateVersion: StateVersion, StoryID: env.story.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
	assert.Contains(t, err.Error(), "step 5")
}

func TestResolve_FullCycle(t *testing.T) {
	env := newTestEnv(t,
		interviewJSON,
		outlineJSON,
		rosterJSON,
		"Draft one text",
		"Draft two text",
		"Draft three text",
		summaryJSON,
		titlesJSON,
	)
	ctx := context.Background()

	// 步骤 1：访谈
	out, err := env.resolver.Resolve(ctx, testAuthor, &Input{
		Step: StepInterview, StateVersion: StateVersion, StoryID: env.story.ID,
		Message: "a heist in a floating city",
	})
	require.NoError(t, err)
	require.Equal(t, StepOutline, out.Step)

	// 步骤 2：回答并生成大纲
	out, err = env.resolver.Resolve(ctx, testAuthor, &Input{
		Step: out.Step, StateVersion: out.StateVersion, StoryID: out.StoryID,
		Topic:              out.Topic,
		InterviewQuestions: out.InterviewQuestions,
		Answers:            "A1\nA2\nA3\nA4\nA5",
	})
	require.NoError(t, err)
	require.Equal(t, StepCharacters, out.Step)

	// 步骤 3：角色
	out, err = env.resolver.Resolve(ctx, testAuthor, &Input{
		Step: out.Step, StateVersion: out.StateVersion, StoryID: out.StoryID,
		Topic:              out.Topic,
		InterviewQuestions: out.InterviewQuestions,
		OutlineResult:      out.OutlineResult,
	})
	require.NoError(t, err)
	require.Equal(t, StepDrafting, out.Step)

	// 步骤 4：起草
	out, err = env.resolver.Resolve(ctx, testAuthor, &Input{
		Step: out.Step, StateVersion: out.StateVersion, StoryID: out.StoryID,
		Topic:              out.Topic,
		InterviewQuestions: out.InterviewQuestions,
		OutlineResult:      validOutline(),
		CharacterResult:    out.CharacterResult,
	})
	require.NoError(t, err)
	require.Equal(t, StepSummary, out.Step)
	require.Len(t, out.Stories, 3)

	// 步骤 5：摘要
	out, err = env.resolver.Resolve(ctx, testAuthor, &Input{
		Step: out.Step, StateVersion: out.StateVersion, StoryID: out.StoryID,
	})
	require.NoError(t, err)
	require.Equal(t, StepTitles, out.Step)
	require.NotEmpty(t, out.Summary)

	// 步骤 6：标题候选，回到起点
	out, err = env.resolver.Resolve(ctx, testAuthor, &Input{
		Step: out.Step, StateVersion: out.StateVersion, StoryID: out.StoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, StepInterview, out.Step)
	assert.Len(t, out.Titles, 5)

	// 最终产物全部落库
	chapters, err := env.chapters.ListByStory(ctx, env.story.ID)
	require.NoError(t, err)
	assert.Len(t, chapters, 3)
	assert.True(t, strings.HasPrefix(env.story.Summary, "An exile"))
}
