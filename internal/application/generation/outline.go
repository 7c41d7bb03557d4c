package generation

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"

	workflowchain "storyloom-api/internal/workflow/chain"
	wfmodel "storyloom-api/internal/workflow/model"
	"storyloom-api/internal/workflow/node"
	workflowport "storyloom-api/internal/workflow/port"
)

// OutlineStage 大纲阶段：基于主题、体裁与访谈问答生成固定章数的大纲
type OutlineStage struct {
	chain        *workflowchain.OutlineChain
	chapterCount int
}

func NewOutlineStage(factory workflowport.ChatModelFactory, chapterCount int) *OutlineStage {
	return &OutlineStage{
		chain:        workflowchain.NewOutlineChain(factory),
		chapterCount: chapterCount,
	}
}

// Run 调用生成后端并在边界处校验大纲结构。
// 章数不对、编号不连续或标题为空都按 SchemaViolation 拒绝，不接受部分结果。
func (s *OutlineStage) Run(ctx context.Context, topic, genre, interviewQA string) (*wfmodel.Outline, error) {
	outMsg, err := s.chain.Invoke(ctx, &wfmodel.OutlineInput{
		Topic:        topic,
		Genre:        genre,
		InterviewQA:  interviewQA,
		ChapterCount: s.chapterCount,
	})
	if err != nil {
		return nil, apperrors.UpstreamGeneration("outline generation failed").WithError(err)
	}

	raw := node.ExtractJSONObject(outMsg.Content)
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.UpstreamGeneration("empty outline output")
	}

	var outline wfmodel.Outline
	if err := json.Unmarshal([]byte(raw), &outline); err != nil {
		logger.Error(ctx, "failed to unmarshal outline output", err, "raw", raw)
		return nil, apperrors.SchemaViolation("outline output is not valid JSON").WithError(err)
	}

	if err := checkOutline(&outline, s.chapterCount); err != nil {
		return nil, apperrors.SchemaViolation("outline violates the output contract").WithDetail(err.Error())
	}
	return &outline, nil
}
