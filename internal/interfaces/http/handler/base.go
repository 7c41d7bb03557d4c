package handler

import (
	"strconv"

	"storyloom-api/internal/interfaces/http/dto"
	"storyloom-api/pkg/errors"
	"storyloom-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// currentUserID 从认证中间件注入的上下文读取用户 ID
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return "", false
	}
	return userID, true
}

// respondError 把应用层错误映射为 HTTP 响应。
// 5xx 记日志，4xx 是客户端问题，原样返回即可。
func respondError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)

	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path,
			"error_code", string(appErr.Code),
		)
	}

	var detail *dto.ErrorDetail
	if appErr.Detail != "" || appErr.Code != "" {
		detail = &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		}
	}
	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, detail)
}

// queryInt 解析整型查询参数，非法或缺失时返回默认值
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
