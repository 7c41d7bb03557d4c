// Package handler 提供 HTTP 请求处理器
package handler

import (
	"storyloom-api/internal/application/story"
	"storyloom-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// StoryHandler 故事处理器
type StoryHandler struct {
	svc *story.Service
}

// NewStoryHandler 创建故事处理器
func NewStoryHandler(svc *story.Service) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// Create 创建故事
// @Summary 创建故事
// @Tags Story
// @Accept json
// @Produce json
// @Param body body dto.CreateStoryRequest true "故事信息"
// @Success 201 {object} dto.Response[dto.StoryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/stories [post]
func (h *StoryHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	s, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Genre)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Created(c, dto.ToStoryResponse(s))
}

// List 列出当前用户的故事
// @Summary 故事列表
// @Tags Story
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[dto.StoryListResponse]
// @Router /v1/stories [get]
func (h *StoryHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	result, err := h.svc.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.ToStoryListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Get 获取单个故事
// @Summary 故事详情
// @Tags Story
// @Produce json
// @Param story_id path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id} [get]
func (h *StoryHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	s, err := h.svc.Get(c.Request.Context(), userID, c.Param("story_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToStoryResponse(s))
}

// Update 更新故事
// @Summary 更新故事
// @Tags Story
// @Accept json
// @Produce json
// @Param story_id path string true "故事 ID"
// @Param body body dto.UpdateStoryRequest true "更新字段"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id} [patch]
func (h *StoryHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	genre := ""
	if req.Genre != nil {
		genre = *req.Genre
	}

	s, err := h.svc.Update(c.Request.Context(), userID, c.Param("story_id"), title, genre)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToStoryResponse(s))
}

// Delete 删除故事及其全部章节与角色
// @Summary 删除故事
// @Tags Story
// @Param story_id path string true "故事 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id} [delete]
func (h *StoryHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("story_id")); err != nil {
		respondError(c, err)
		return
	}

	dto.NoContent(c)
}
