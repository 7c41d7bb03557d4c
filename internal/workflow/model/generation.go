// Package model 定义工作流层的输入输出结构
package model

// InterviewInput 采访问题生成输入
type InterviewInput struct {
	Provider      string
	Model         string
	Temperature   *float32
	MaxTokens     *int
	Topic         string
	Genre         string
	QuestionCount int
}

// InterviewQuestion 单个采访问题
type InterviewQuestion struct {
	Question string `json:"question"`
}

// InterviewQuestions 采访问题集合，模型输出的信封结构
type InterviewQuestions struct {
	Questions []InterviewQuestion `json:"questions"`
}

// OutlineInput 大纲生成输入
type OutlineInput struct {
	Provider     string
	Model        string
	Temperature  *float32
	MaxTokens    *int
	Topic        string
	Genre        string
	InterviewQA  string
	ChapterCount int
}

// OutlineChapter 大纲中的单章
type OutlineChapter struct {
	ChapterNumber int    `json:"chapter_number"`
	ChapterTitle  string `json:"chapter_title"`
}

// Outline 故事大纲，模型输出的信封结构
type Outline struct {
	Chapters []OutlineChapter `json:"chapters"`
}

// CharacterInput 角色生成输入
type CharacterInput struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
	Topic       string
	Genre       string
	InterviewQA string
}

// CharacterDraft 模型生成的单个角色
type CharacterDraft struct {
	Name       string `json:"name"`
	Appearance string `json:"appearance"`
	Biography  string `json:"biography"`
}

// CharacterSet 角色集合，模型输出的信封结构
type CharacterSet struct {
	Characters []CharacterDraft `json:"characters"`
}

// ChapterDraftInput 章节正文起草输入
type ChapterDraftInput struct {
	Provider      string
	Model         string
	Temperature   *float32
	MaxTokens     *int
	Topic         string
	Genre         string
	OutlineDigest string
	ChapterNumber int
	ChapterTitle  string
	InterviewQA   string
	Characters    string
	MemoryContext string
}

// SummaryInput 故事摘要生成输入
type SummaryInput struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
	Story       string
}

// StorySummary 摘要信封结构
type StorySummary struct {
	Summary string `json:"summary"`
}

// TitleInput 标题候选生成输入
type TitleInput struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
	Summary     string
	TitleCount  int
}

// TitleCandidates 标题候选信封结构
type TitleCandidates struct {
	Titles []string `json:"titles"`
}
