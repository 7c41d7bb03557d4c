package generation

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"
	"storyloom-api/pkg/metrics"

	"storyloom-api/internal/config"
	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
	workflowport "storyloom-api/internal/workflow/port"
)

var tracer = otel.Tracer("generation")

// StepResolver 工作流状态机。
// 校验声明的步骤与其必备字段，派发恰好一个阶段，
// 返回下一步编号与客户端下次必须回传的全部数据。
type StepResolver struct {
	cfg        *config.GenerationConfig
	stories    repository.StoryRepository
	interview  *InterviewStage
	outline    *OutlineStage
	characters *CharacterStage
	drafting   *ChapterDraftingStage
	summary    *SummaryStage
	titles     *TitleStage
}

// NewStepResolver 创建工作流状态机
func NewStepResolver(
	cfg *config.Config,
	factory workflowport.ChatModelFactory,
	stories repository.StoryRepository,
	chapters repository.ChapterRepository,
	characters repository.CharacterRepository,
) *StepResolver {
	gen := &cfg.Generation
	return &StepResolver{
		cfg:        gen,
		stories:    stories,
		interview:  NewInterviewStage(factory, gen.InterviewQuestionCount),
		outline:    NewOutlineStage(factory, gen.OutlineChapterCount),
		characters: NewCharacterStage(factory, characters),
		drafting:   NewChapterDraftingStage(factory, chapters, gen.DraftMemoryMaxRunes),
		summary:    NewSummaryStage(factory, stories, chapters),
		titles:     NewTitleStage(factory, gen.TitleCandidateCount),
	}
}

// Resolve 执行单步转移。一次调用只派发一个阶段，绝不连跑多步。
func (r *StepResolver) Resolve(ctx context.Context, authorID string, in *Input) (*Output, error) {
	if err := validateEnvelope(in); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "generation.Resolve")
	span.SetAttributes(
		attribute.Int("generation.step", in.Step),
		attribute.String("generation.story_id", in.StoryID),
	)
	defer span.End()

	ctx = logger.WithContext(ctx, logger.StoryIDKey, in.StoryID)
	ctx = logger.WithContext(ctx, logger.StepKey, in.Step)

	// 所有步骤都要求故事存在且归调用方所有；
	// 归属不符与不存在同样报 not found，不向非属主泄露存在性。
	story, err := r.stories.GetByIDAndAuthor(ctx, in.StoryID, authorID)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to load story")
	}
	if story == nil {
		return nil, apperrors.ErrStoryNotFound
	}

	start := time.Now()
	out, err := r.dispatch(ctx, story, in)

	stepLabel := strconv.Itoa(in.Step)
	metrics.GenerationStepDuration.WithLabelValues(stepLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		metrics.GenerationStepTotal.WithLabelValues(stepLabel, "error").Inc()
		return nil, err
	}
	metrics.GenerationStepTotal.WithLabelValues(stepLabel, "success").Inc()

	out.StateVersion = StateVersion
	out.StoryID = story.ID
	return out, nil
}

// dispatch 转移表：(step, 已提供字段) -> 阶段 | ValidationError
func (r *StepResolver) dispatch(ctx context.Context, story *entity.Story, in *Input) (*Output, error) {
	switch in.Step {
	case StepInterview:
		return r.runInterview(ctx, story, in)
	case StepOutline:
		return r.runOutline(ctx, story, in)
	case StepCharacters:
		return r.runCharacters(ctx, story, in)
	case StepDrafting:
		return r.runDrafting(ctx, story, in)
	case StepSummary:
		return r.runSummary(ctx, story)
	case StepTitles:
		return r.runTitles(ctx, story)
	default:
		return nil, apperrors.Newf(apperrors.CodeInvalidStep, "unknown workflow step %d", in.Step)
	}
}

func (r *StepResolver) runInterview(ctx context.Context, story *entity.Story, in *Input) (*Output, error) {
	topic := strings.TrimSpace(in.Message)
	if topic == "" {
		topic = strings.TrimSpace(in.Topic)
	}
	if topic == "" {
		return nil, apperrors.Validation("message (topic) is required at step 1")
	}

	questions, err := r.interview.Run(ctx, topic, story.Genre)
	if err != nil {
		return nil, err
	}
	return &Output{
		Step:               StepOutline,
		Topic:              topic,
		InterviewQuestions: questions,
	}, nil
}

func (r *StepResolver) runOutline(ctx context.Context, story *entity.Story, in *Input) (*Output, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, apperrors.Validation("topic is required at step 2")
	}
	if len(in.InterviewQuestions) == 0 {
		return nil, apperrors.Validation("interview_questions are required at step 2")
	}
	if len(in.InterviewQuestions) != r.cfg.InterviewQuestionCount {
		return nil, apperrors.Validationf("expected %d interview questions, got %d",
			r.cfg.InterviewQuestionCount, len(in.InterviewQuestions))
	}

	answers, err := SplitAnswers(in.Answers, len(in.InterviewQuestions))
	if err != nil {
		return nil, err
	}
	merged := MergeQA(in.InterviewQuestions, answers)

	outline, err := r.outline.Run(ctx, topic, story.Genre, strings.Join(merged, "\n"))
	if err != nil {
		return nil, err
	}
	return &Output{
		Step:               StepCharacters,
		Topic:              topic,
		InterviewQuestions: merged,
		OutlineResult:      outline,
	}, nil
}

func (r *StepResolver) runCharacters(ctx context.Context, story *entity.Story, in *Input) (*Output, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, apperrors.Validation("topic is required at step 3")
	}
	if len(in.InterviewQuestions) == 0 {
		return nil, apperrors.Validation("interview_questions (merged Q&A) are required at step 3")
	}
	if err := checkOutline(in.OutlineResult, r.cfg.OutlineChapterCount); err != nil {
		return nil, apperrors.Validation("outline_result is invalid").WithDetail(err.Error())
	}

	set, err := r.characters.Run(ctx, story, topic, story.Genre, strings.Join(in.InterviewQuestions, "\n"))
	if err != nil {
		return nil, err
	}
	return &Output{
		Step:               StepDrafting,
		Topic:              topic,
		InterviewQuestions: in.InterviewQuestions,
		OutlineResult:      in.OutlineResult,
		CharacterResult:    set,
	}, nil
}

func (r *StepResolver) runDrafting(ctx context.Context, story *entity.Story, in *Input) (*Output, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, apperrors.Validation("topic is required at step 4")
	}
	if len(in.InterviewQuestions) == 0 {
		return nil, apperrors.Validation("interview_questions (merged Q&A) are required at step 4")
	}
	if err := checkOutline(in.OutlineResult, r.cfg.OutlineChapterCount); err != nil {
		return nil, apperrors.Validation("outline_result is invalid").WithDetail(err.Error())
	}
	if in.CharacterResult == nil || len(in.CharacterResult.Characters) == 0 {
		return nil, apperrors.Validation("character_result is required at step 4")
	}

	texts, err := r.drafting.Run(ctx, story, topic, story.Genre,
		in.OutlineResult,
		strings.Join(in.InterviewQuestions, "\n"),
		rosterDigest(in.CharacterResult),
	)
	if err != nil {
		return nil, err
	}
	return &Output{
		Step:    StepSummary,
		Topic:   topic,
		Stories: texts,
	}, nil
}

func (r *StepResolver) runSummary(ctx context.Context, story *entity.Story) (*Output, error) {
	summary, err := r.summary.Run(ctx, story)
	if err != nil {
		return nil, err
	}
	return &Output{
		Step:    StepTitles,
		Summary: summary,
	}, nil
}

func (r *StepResolver) runTitles(ctx context.Context, story *entity.Story) (*Output, error) {
	if strings.TrimSpace(story.Summary) == "" {
		return nil, apperrors.Validation("story summary has not been generated yet, run step 5 first")
	}
	titles, err := r.titles.Run(ctx, story.Summary)
	if err != nil {
		return nil, err
	}
	// 标题候选给出后一轮生成结束，计步回到起点
	return &Output{
		Step:   StepInterview,
		Titles: titles,
	}, nil
}
