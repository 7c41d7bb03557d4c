// Package handler 提供 HTTP 请求处理器
package handler

import (
	"storyloom-api/internal/application/character"
	"storyloom-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// CharacterHandler 角色处理器
type CharacterHandler struct {
	svc *character.Service
}

// NewCharacterHandler 创建角色处理器
func NewCharacterHandler(svc *character.Service) *CharacterHandler {
	return &CharacterHandler{svc: svc}
}

// List 列出故事的角色名册
// @Summary 角色列表
// @Tags Character
// @Produce json
// @Param story_id path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.CharacterListResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/characters [get]
func (h *CharacterHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	characters, err := h.svc.List(c.Request.Context(), userID, c.Param("story_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToCharacterListResponse(characters))
}

// Create 手工创建角色
// @Summary 创建角色
// @Tags Character
// @Accept json
// @Produce json
// @Param story_id path string true "故事 ID"
// @Param body body dto.CreateCharacterRequest true "角色信息"
// @Success 201 {object} dto.Response[dto.CharacterResponse]
// @Router /v1/stories/{story_id}/characters [post]
func (h *CharacterHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ch, err := h.svc.Create(c.Request.Context(), userID, c.Param("story_id"), req.Name, req.Appearance, req.Biography)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Created(c, dto.ToCharacterResponse(ch))
}

// Get 获取单个角色
// @Summary 角色详情
// @Tags Character
// @Produce json
// @Param story_id path string true "故事 ID"
// @Param id path string true "角色 ID"
// @Success 200 {object} dto.Response[dto.CharacterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/characters/{id} [get]
func (h *CharacterHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ch, err := h.svc.Get(c.Request.Context(), userID, c.Param("story_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToCharacterResponse(ch))
}

// Update 更新角色设定
// @Summary 更新角色
// @Tags Character
// @Accept json
// @Produce json
// @Param story_id path string true "故事 ID"
// @Param id path string true "角色 ID"
// @Param body body dto.UpdateCharacterRequest true "更新字段"
// @Success 200 {object} dto.Response[dto.CharacterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/characters/{id} [patch]
func (h *CharacterHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	appearance := ""
	if req.Appearance != nil {
		appearance = *req.Appearance
	}
	biography := ""
	if req.Biography != nil {
		biography = *req.Biography
	}

	ch, err := h.svc.Update(c.Request.Context(), userID, c.Param("story_id"), c.Param("id"), name, appearance, biography)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToCharacterResponse(ch))
}

// Delete 删除角色。仍被章节引用的角色拒绝删除。
// @Summary 删除角色
// @Tags Character
// @Param story_id path string true "故事 ID"
// @Param id path string true "角色 ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/stories/{story_id}/characters/{id} [delete]
func (h *CharacterHandler) Delete(c *gin.Context) {
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
