// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"storyloom-api/internal/application/generation"
	wfmodel "storyloom-api/internal/workflow/model"
)

// GenerateRequest 单步生成请求。服务端无状态，
// 客户端把上一步响应中的数据原样回传，缺失或被改动的字段会被校验拒绝。
type GenerateRequest struct {
	Step               int                   `json:"step" binding:"required,min=1,max=6"`
	StateVersion       int                   `json:"state_version"`
	StoryID            string                `json:"story_id" binding:"required,uuid"`
	Message            string                `json:"message"`
	Topic              string                `json:"topic"`
	InterviewQuestions []string              `json:"interview_questions"`
	Answers            string                `json:"answers"`
	OutlineResult      *wfmodel.Outline      `json:"outline_result"`
	CharacterResult    *wfmodel.CharacterSet `json:"character_result"`
}

// GenerateResponse 单步生成响应：下一步编号与客户端下次必须回传的全部状态
type GenerateResponse struct {
	Step               int                   `json:"step"`
	StateVersion       int                   `json:"state_version"`
	StoryID            string                `json:"story_id"`
	Topic              string                `json:"topic,omitempty"`
	InterviewQuestions []string              `json:"interview_questions,omitempty"`
	OutlineResult      *wfmodel.Outline      `json:"outline_result,omitempty"`
	CharacterResult    *wfmodel.CharacterSet `json:"character_result,omitempty"`
	Stories            []string              `json:"stories,omitempty"`
	Summary            string                `json:"summary,omitempty"`
	Titles             []string              `json:"titles,omitempty"`
}

// ToGenerationInput 请求转换为应用层输入
func (r *GenerateRequest) ToGenerationInput() *generation.Input {
	return &generation.Input{
		Step:               r.Step,
		StateVersion:       r.StateVersion,
		StoryID:            r.StoryID,
		Message:            r.Message,
		Topic:              r.Topic,
		InterviewQuestions: r.InterviewQuestions,
		Answers:            r.Answers,
		OutlineResult:      r.OutlineResult,
		CharacterResult:    r.CharacterResult,
	}
}

// ToGenerateResponse 应用层输出转换为响应
func ToGenerateResponse(out *generation.Output) *GenerateResponse {
	if out == nil {
		return nil
	}
	return &GenerateResponse{
		Step:               out.Step,
		StateVersion:       out.StateVersion,
		StoryID:            out.StoryID,
		Topic:              out.Topic,
		InterviewQuestions: out.InterviewQuestions,
		OutlineResult:      out.OutlineResult,
		CharacterResult:    out.CharacterResult,
		Stories:            out.Stories,
		Summary:            out.Summary,
		Titles:             out.Titles,
	}
}
