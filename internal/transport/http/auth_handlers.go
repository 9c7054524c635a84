package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signInHandler(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, "SignIn", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// signOut — всегда 204: повторный выход и чужой токен не ошибка.
func (h *Handler) signOut(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		if err := h.auth.SignOut(c.Request.Context(), token); err != nil {
			h.fail(c, "SignOut", err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	p, _ := principalFrom(c)
	isAdmin, err := h.auth.IsAdmin(c.Request.Context(), p.UserID)
	if err != nil {
		h.fail(c, "IsAdmin", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p, "is_admin": isAdmin})
}
