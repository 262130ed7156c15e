package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// httpLogHooks logs outgoing GitHub requests at debug level.
type httpLogHooks struct {
	logger *log.Logger
}

func newHTTPLogHooks(l *log.Logger) *httpLogHooks {
	return &httpLogHooks{logger: l}
}

func (h *httpLogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *httpLogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *httpLogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "error", err)
}
