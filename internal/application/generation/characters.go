package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"
	"storyloom-api/pkg/metrics"

	"storyloom-api/internal/domain/entity"
	"storyloom-api/internal/domain/repository"
	workflowchain "storyloom-api/internal/workflow/chain"
	wfmodel "storyloom-api/internal/workflow/model"
	"storyloom-api/internal/workflow/node"
	workflowport "storyloom-api/internal/workflow/port"
)

// CharacterStage 角色阶段：生成角色名册并逐行持久化到目标故事。
// 每个角色的保存是独立单元，前面已保存的行不随后续失败回滚；
// 为避免重试产生重复名册，已有角色的故事直接拒绝重跑。
type CharacterStage struct {
	chain      *workflowchain.CharacterChain
	characters repository.CharacterRepository
}

func NewCharacterStage(factory workflowport.ChatModelFactory, characters repository.CharacterRepository) *CharacterStage {
	return &CharacterStage{
		chain:      workflowchain.NewCharacterChain(factory),
		characters: characters,
	}
}

// Run 生成并持久化角色名册
func (s *CharacterStage) Run(ctx context.Context, story *entity.Story, topic, genre, interviewQA string) (*wfmodel.CharacterSet, error) {
	existing, err := s.characters.CountByStory(ctx, story.ID)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to check existing characters")
	}
	if existing > 0 {
		return nil, apperrors.Validationf("story already has %d characters, character generation cannot be re-run", existing)
	}

	outMsg, err := s.chain.Invoke(ctx, &wfmodel.CharacterInput{
		Topic:       topic,
		Genre:       genre,
		InterviewQA: interviewQA,
	})
	if err != nil {
		return nil, apperrors.UpstreamGeneration("character generation failed").WithError(err)
	}

	raw := node.ExtractJSONObject(outMsg.Content)
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.UpstreamGeneration("empty character output")
	}

	var set wfmodel.CharacterSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		logger.Error(ctx, "failed to unmarshal character output", err, "raw", raw)
		return nil, apperrors.SchemaViolation("character output is not valid JSON").WithError(err)
	}

	if len(set.Characters) == 0 {
		return nil, apperrors.UpstreamGeneration("character output contains no characters")
	}
	for i, c := range set.Characters {
		if strings.TrimSpace(c.Name) == "" {
			return nil, apperrors.SchemaViolation("character output violates the contract").
				WithDetail(fmt.Sprintf("character %d has an empty name", i))
		}
	}

	for i, draft := range set.Characters {
		character := entity.NewCharacter(story.ID, draft.Name, draft.Appearance, draft.Biography)
		if err := s.characters.Create(ctx, character); err != nil {
			return nil, apperrors.Persistence(err, fmt.Sprintf("failed to persist character %d of %d", i+1, len(set.Characters)))
		}
		metrics.CharactersGenerated.Inc()
	}

	logger.Info(ctx, "character roster persisted", "story_id", story.ID, "count", len(set.Characters))
	return &set, nil
}
