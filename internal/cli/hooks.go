package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("loading payload", "path", path)
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, files int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("payload loaded", "path", path, "files", files, "duration", d)
}

func (h *logHooks) OnBuildStart(_ context.Context, builder string, files int) {
	h.logger.Debug("building", "builder", builder, "files", files)
}

func (h *logHooks) OnBuildComplete(_ context.Context, builder string, size int, d time.Duration, err error) {
	h.logger.Debug("built", "builder", builder, "size", size, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnCacheError(_ context.Context, keyType string, err error) {
	h.logger.Debug("cache error", "type", keyType, "err", err)
}
