package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"

	workflowchain "storyloom-api/internal/workflow/chain"
	wfmodel "storyloom-api/internal/workflow/model"
	"storyloom-api/internal/workflow/node"
	workflowport "storyloom-api/internal/workflow/port"
)

// InterviewStage 访谈阶段：为主题与体裁生成固定数量的开放式问题
type InterviewStage struct {
	chain         *workflowchain.InterviewChain
	questionCount int
}

func NewInterviewStage(factory workflowport.ChatModelFactory, questionCount int) *InterviewStage {
	return &InterviewStage{
		chain:         workflowchain.NewInterviewChain(factory),
		questionCount: questionCount,
	}
}

// Run 调用生成后端并校验问题数量。
// 数量不符或结构损坏必须原样上报，不截断也不补齐。
func (s *InterviewStage) Run(ctx context.Context, topic, genre string) ([]string, error) {
	outMsg, err := s.chain.Invoke(ctx, &wfmodel.InterviewInput{
		Topic:         topic,
		Genre:         genre,
		QuestionCount: s.questionCount,
	})
	if err != nil {
		return nil, apperrors.UpstreamGeneration("interview generation failed").WithError(err)
	}

	raw := node.ExtractJSONObject(outMsg.Content)
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.UpstreamGeneration("empty interview output")
	}

	var env wfmodel.InterviewQuestions
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		logger.Error(ctx, "failed to unmarshal interview output", err, "raw", raw)
		return nil, apperrors.UpstreamGeneration("invalid interview output").WithError(err)
	}

	if len(env.Questions) != s.questionCount {
		return nil, apperrors.UpstreamGeneration("interview question count out of contract").
			WithDetail(fmt.Sprintf("expected %d questions, got %d", s.questionCount, len(env.Questions)))
	}

	questions := make([]string, 0, s.questionCount)
	for i, q := range env.Questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			return nil, apperrors.UpstreamGeneration("interview output contains an empty question").
				WithDetail(fmt.Sprintf("question index %d", i))
		}
		questions = append(questions, text)
	}
	return questions, nil
}
