// Package generation 实现分步故事生成工作流：
// 访谈 -> 大纲 -> 角色 -> 章节起草 -> 摘要 -> 标题候选。
// 服务端在两次调用之间不保存任何进度，客户端携带全部状态，
// 服务端每次调用都重新校验，绝不猜测或自动修补缺失字段。
package generation

import (
	"fmt"
	"strings"

	apperrors "storyloom-api/pkg/errors"

	wfmodel "storyloom-api/internal/workflow/model"
)

// StateVersion 客户端携带状态信封的当前版本
const StateVersion = 1

// 工作流步骤。步骤值由客户端声明，转移表负责判定合法性。
const (
	StepInterview  = 1 // 生成访谈问题
	StepOutline    = 2 // 提交答案，生成大纲
	StepCharacters = 3 // 生成并持久化角色
	StepDrafting   = 4 // 顺序起草并持久化章节
	StepSummary    = 5 // 汇总已起草的故事摘要
	StepTitles     = 6 // 基于摘要生成标题候选
)

// Input 单步请求的应用层输入，字段是否必填取决于声明的步骤
type Input struct {
	Step               int
	StateVersion       int
	StoryID            string
	Message            string
	Topic              string
	InterviewQuestions []string
	Answers            string
	OutlineResult      *wfmodel.Outline
	CharacterResult    *wfmodel.CharacterSet
}

// Output 单步响应：下一步编号加上客户端下次必须回传的全部数据
type Output struct {
	Step               int
	StateVersion       int
	StoryID            string
	Topic              string
	InterviewQuestions []string
	OutlineResult      *wfmodel.Outline
	CharacterResult    *wfmodel.CharacterSet
	Stories            []string
	Summary            string
	Titles             []string
}

// validateEnvelope 校验状态信封本身：版本标签与故事引用
func validateEnvelope(in *Input) error {
	if in == nil {
		return apperrors.Validation("request body is required")
	}
	if in.StateVersion != 0 && in.StateVersion != StateVersion {
		return apperrors.Validationf("unsupported state_version %d, expected %d", in.StateVersion, StateVersion)
	}
	if strings.TrimSpace(in.StoryID) == "" {
		return apperrors.Validation("story_id is required")
	}
	return nil
}

// SplitAnswers 把换行分隔的答案串拆成恰好 want 条。
// 行数不匹配是客户端状态错误，必须报给调用方而不是截断或补空。
func SplitAnswers(answers string, want int) ([]string, error) {
	trimmed := strings.TrimRight(answers, "\n")
	if strings.TrimSpace(trimmed) == "" {
		return nil, apperrors.Validationf("answers are required, expected %d newline-delimited entries", want)
	}
	parts := strings.Split(trimmed, "\n")
	if len(parts) != want {
		return nil, apperrors.Validationf("answer count mismatch: got %d answers for %d questions", len(parts), want)
	}
	return parts, nil
}

// MergeQA 把问题与答案按位置合并成 "Q: ...\nA: ..." 形式。
// 合并后的串在后续步骤里整体作为访谈上下文回传。
func MergeQA(questions, answers []string) []string {
	merged := make([]string, 0, len(questions))
	for i, q := range questions {
		a := ""
		if i < len(answers) {
			a = strings.TrimSpace(answers[i])
		}
		merged = append(merged, fmt.Sprintf("Q: %s\nA: %s", strings.TrimSpace(q), a))
	}
	return merged
}

// checkOutline 校验大纲结构：恰好 want 章、编号从 1 连续、标题非空。
// 不合法时返回描述具体字段的 detail，由调用方决定错误类别
// （模型输出用 SchemaViolation，客户端回传用 ValidationError）。
func checkOutline(o *wfmodel.Outline, want int) error {
	if o == nil || len(o.Chapters) == 0 {
		return fmt.Errorf("outline is empty")
	}
	if len(o.Chapters) != want {
		return fmt.Errorf("expected %d chapters, got %d", want, len(o.Chapters))
	}
	for i, ch := range o.Chapters {
		if ch.ChapterNumber != i+1 {
			return fmt.Errorf("chapter numbers must be contiguous starting at 1, got %d at index %d", ch.ChapterNumber, i)
		}
		if strings.TrimSpace(ch.ChapterTitle) == "" {
			return fmt.Errorf("chapter %d has an empty title", ch.ChapterNumber)
		}
	}
	return nil
}

// outlineDigest 把大纲压成提示词用的一行式描述
func outlineDigest(o *wfmodel.Outline) string {
	parts := make([]string, 0, len(o.Chapters))
	for _, ch := range o.Chapters {
		parts = append(parts, fmt.Sprintf("Chapter %d: %s", ch.ChapterNumber, ch.ChapterTitle))
	}
	return strings.Join(parts, "; ")
}

// rosterDigest 把角色集合压成提示词用的逐行描述
func rosterDigest(cs *wfmodel.CharacterSet) string {
	if cs == nil {
		return ""
	}
	parts := make([]string, 0, len(cs.Characters))
	for _, c := range cs.Characters {
		parts = append(parts, fmt.Sprintf("%s | appearance: %s | biography: %s",
			strings.TrimSpace(c.Name), strings.TrimSpace(c.Appearance), strings.TrimSpace(c.Biography)))
	}
	return strings.Join(parts, "\n")
}
