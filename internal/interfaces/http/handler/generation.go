// Package handler 提供 HTTP 请求处理器
package handler

import (
	"storyloom-api/internal/application/generation"
	"storyloom-api/internal/interfaces/http/dto"
	"storyloom-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// GenerationHandler 分步生成处理器
type GenerationHandler struct {
	resolver *generation.StepResolver
}

// NewGenerationHandler 创建分步生成处理器
func NewGenerationHandler(resolver *generation.StepResolver) *GenerationHandler {
	return &GenerationHandler{resolver: resolver}
}

// Generate 执行一个生成步骤
// @Summary 执行生成工作流的单个步骤
// @Description 无状态接口：客户端携带全部状态，服务端根据 step 分派并返回下一步所需数据
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "步骤请求"
// @Success 200 {object} dto.Response[dto.GenerateResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/stories/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	logger.Info(ctx, "generation step requested",
		"story_id", req.StoryID,
		"step", req.Step,
	)

	out, err := h.resolver.Resolve(ctx, userID, req.ToGenerationInput())
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToGenerateResponse(out))
}
