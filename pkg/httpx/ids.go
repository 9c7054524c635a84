package httpx

import (
	"context"

	"github.com/Gunvolt24/techstore/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	// HeaderClientID — анонимный идентификатор браузера: ключ корзины и сборки ПК.
	HeaderClientID = "X-Client-ID"

	maxIDSize = 64
)

// RequestIDMiddleware — X-Request-ID от клиента или новый UUID; в контекст и в ответ.
func RequestIDMiddleware() gin.HandlerFunc {
	return propagateID(HeaderRequestID, ctxmeta.WithRequestID)
}

// ClientIDMiddleware — то же для X-Client-ID. Клиент сохраняет выданный id у себя
// и присылает его дальше, иначе каждый запрос получает новую пустую корзину.
func ClientIDMiddleware() gin.HandlerFunc {
	return propagateID(HeaderClientID, ctxmeta.WithClientID)
}

func propagateID(header string, put func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !validID(id) {
			id = uuid.NewString()
		}
		c.Header(header, id)
		c.Request = c.Request.WithContext(put(c.Request.Context(), id))
		c.Next()
	}
}

// validID — id попадает в ключи KV и в логи, поэтому только [A-Za-z0-9_-] и не длиннее maxIDSize.
func validID(s string) bool {
	if s == "" || len(s) > maxIDSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
		default:
			return false
		}
	}
	return true
}
