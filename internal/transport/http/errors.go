package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gunvolt24/techstore/internal/auth"
	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/validate"
	"github.com/gin-gonic/gin"
)

var errForbidden = errors.New("admin access required")

// statusOf — HTTP-статус по ошибке слоя usecase/auth.
func statusOf(err error) int {
	switch {
	case errors.Is(err, validate.ErrInvalidInput), errors.Is(err, usecase.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail — ответ с ошибкой. Внутренние ошибки логируются, клиенту уходит общий текст.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	status := statusOf(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "%s failed err=%v", op, err)
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// warnRefresh — запись создана, но кэш после неё не обновился: клиенту успех, в лог предупреждение.
func (h *Handler) warnRefresh(c *gin.Context, op string, err error) {
	if err != nil {
		_ = c.Error(err)
		h.log.Warnf(c.Request.Context(), "%s: stored, cache refresh failed err=%v", op, err)
	}
}
