// Package service 存放跨层共享的领域级上下文工具。
package service

import (
	"context"
	"strings"
)

type llmCtxKey int

const (
	stageKey llmCtxKey = iota
	providerKey
)

const unknownLabel = "unknown"

// WithStageProvider 把生成阶段与模型供应商标签写入 context，
// 供模型回调在打点和追踪时读取。空值不写入。
func WithStageProvider(ctx context.Context, stage, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	if s := strings.TrimSpace(stage); s != "" {
		ctx = context.WithValue(ctx, stageKey, s)
	}
	if p := strings.TrimSpace(provider); p != "" {
		ctx = context.WithValue(ctx, providerKey, p)
	}
	return ctx
}

// StageFromContext 读取生成阶段标签，缺失时返回 "unknown"
func StageFromContext(ctx context.Context) string {
	return labelFromContext(ctx, stageKey)
}

// ProviderFromContext 读取模型供应商标签，缺失时返回 "unknown"
func ProviderFromContext(ctx context.Context) string {
	return labelFromContext(ctx, providerKey)
}

func labelFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknownLabel
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknownLabel
	}
	return strings.TrimSpace(s)
}
