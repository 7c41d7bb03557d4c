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

// TitleStage 标题阶段：基于故事摘要生成固定数量的标题候选
type TitleStage struct {
	chain      *workflowchain.TitleChain
	titleCount int
}

func NewTitleStage(factory workflowport.ChatModelFactory, titleCount int) *TitleStage {
	return &TitleStage{
		chain:      workflowchain.NewTitleChain(factory),
		titleCount: titleCount,
	}
}

// Run 生成标题候选
func (s *TitleStage) Run(ctx context.Context, summary string) ([]string, error) {
	outMsg, err := s.chain.Invoke(ctx, &wfmodel.TitleInput{
		Summary:    summary,
		TitleCount: s.titleCount,
	})
	if err != nil {
		return nil, apperrors.UpstreamGeneration("title generation failed").WithError(err)
	}

	raw := node.ExtractJSONObject(outMsg.Content)
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.UpstreamGeneration("empty title output")
	}

	var env wfmodel.TitleCandidates
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		logger.Error(ctx, "failed to unmarshal title output", err, "raw", raw)
		return nil, apperrors.SchemaViolation("title output is not valid JSON").WithError(err)
	}

	if len(env.Titles) != s.titleCount {
		return nil, apperrors.UpstreamGeneration("title candidate count out of contract").
			WithDetail(fmt.Sprintf("expected %d titles, got %d", s.titleCount, len(env.Titles)))
	}
	titles := make([]string, 0, s.titleCount)
	for i, t := range env.Titles {
		title := strings.TrimSpace(t)
		if title == "" {
			return nil, apperrors.UpstreamGeneration("title output contains an empty candidate").
				WithDetail(fmt.Sprintf("title index %d", i))
		}
		titles = append(titles, title)
	}
	return titles, nil
}
