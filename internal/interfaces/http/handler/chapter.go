// Package handler 提供 HTTP 请求处理器
package handler

import (
	"storyloom-api/internal/application/chapter"
	"storyloom-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// ChapterHandler 章节处理器
type ChapterHandler struct {
	svc *chapter.Service
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(svc *chapter.Service) *ChapterHandler {
	return &ChapterHandler{svc: svc}
}

// List 列出故事的全部章节，按 position 升序
// @Summary 章节列表
// @Tags Chapter
// @Produce json
// @Param story_id path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.ChapterListResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/chapters [get]
func (h *ChapterHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	chapters, err := h.svc.List(c.Request.Context(), userID, c.Param("story_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToChapterListResponse(chapters))
}

// Create 手工创建章节
// @Summary 创建章节
// @Tags Chapter
// @Accept json
// @Produce json
// @Param story_id path string true "故事 ID"
// @Param body body dto.CreateChapterRequest true "章节信息"
// @Success 201 {object} dto.Response[dto.ChapterResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/chapters [post]
func (h *ChapterHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ch, err := h.svc.Create(c.Request.Context(), userID, c.Param("story_id"), req.Title, req.Content, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Created(c, dto.ToChapterResponse(ch))
}

// Get 获取单个章节
// @Summary 章节详情
// @Tags Chapter
// @Produce json
// @Param story_id path string true "故事 ID"
// @Param id path string true "章节 ID"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/chapters/{id} [get]
func (h *ChapterHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ch, err := h.svc.Get(c.Request.Context(), userID, c.Param("story_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToChapterResponse(ch))
}

// Update 更新章节内容或出场角色关联
// @Summary 更新章节
// @Tags Chapter
// @Accept json
// @Produce json
// @Param story_id path string true "故事 ID"
// @Param id path string true "章节 ID"
// @Param body body dto.UpdateChapterRequest true "更新字段"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/chapters/{id} [patch]
func (h *ChapterHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	content := ""
	if req.Content != nil {
		content = *req.Content
	}

	ch, err := h.svc.Update(c.Request.Context(), userID, c.Param("story_id"), c.Param("id"), title, content, req.CharacterIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToChapterResponse(ch))
}

// Delete 删除章节
// @Summary 删除章节
// @Tags Chapter
// @Param story_id path string true "故事 ID"
// @Param id path string true "章节 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/chapters/{id} [delete]
func (h *ChapterHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("story_id"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	dto.NoContent(c)
}
