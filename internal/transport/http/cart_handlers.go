package rest

import (
	"net/http"
	"strings"

	"github.com/Gunvolt24/techstore/internal/builder"
	"github.com/Gunvolt24/techstore/internal/cart"
	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

type cartView struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func cartViewOf(ct *cart.Cart) cartView {
	return cartView{Items: ct.Items(), Total: ct.Total(), Count: ct.Count()}
}

func clientID(c *gin.Context) string {
	id, _ := ctxmeta.ClientIDFromContext(c.Request.Context())
	return id
}

func (h *Handler) loadCart(c *gin.Context) (*cart.Cart, bool) {
	ct, err := h.carts.Load(c.Request.Context(), clientID(c))
	if err != nil {
		h.fail(c, "LoadCart", err)
		return nil, false
	}
	return ct, true
}

func (h *Handler) getCart(c *gin.Context) {
	ct, ok := h.loadCart(c)
	if !ok {
		return
	}
	view := cartViewOf(ct)
	c.JSON(http.StatusOK, gin.H{
		"items": view.Items,
		"total": view.Total,
		"count": view.Count,
		"quote": h.store.Quote(view.Items),
	})
}

func (h *Handler) clearCart(c *gin.Context) {
	ct, ok := h.loadCart(c)
	if !ok {
		return
	}
	if err := ct.Clear(c.Request.Context()); err != nil {
		h.fail(c, "ClearCart", err)
		return
	}
	c.JSON(http.StatusOK, cartViewOf(ct))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

// addCartItem — товар берётся из каталога, цена и название фиксируются в корзине.
func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		badRequest(c, "product_id is required")
		return
	}
	product, err := h.store.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		h.fail(c, "Product", err)
		return
	}
	ct, ok := h.loadCart(c)
	if !ok {
		return
	}
	if err := ct.Add(c.Request.Context(), *product); err != nil {
		h.fail(c, "AddToCart", err)
		return
	}
	c.JSON(http.StatusOK, cartViewOf(ct))
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}
	ct, ok := h.loadCart(c)
	if !ok {
		return
	}
	if err := ct.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
		h.fail(c, "UpdateQuantity", err)
		return
	}
	c.JSON(http.StatusOK, cartViewOf(ct))
}

func (h *Handler) removeCartItem(c *gin.Context) {
	ct, ok := h.loadCart(c)
	if !ok {
		return
	}
	if err := ct.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "RemoveFromCart", err)
		return
	}
	c.JSON(http.StatusOK, cartViewOf(ct))
}

// checkout — заказ из корзины клиента; после успешного оформления корзина очищается.
func (h *Handler) checkout(c *gin.Context) {
	var customer domain.CustomerInput
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	ct, ok := h.loadCart(c)
	if !ok {
		return
	}
	order, err := h.store.PlaceOrder(c.Request.Context(), ct.Items(), customer)
	if order == nil {
		h.fail(c, "PlaceOrder", err)
		return
	}
	h.warnRefresh(c, "PlaceOrder", err)
	if cerr := ct.Clear(c.Request.Context()); cerr != nil {
		h.log.Warnf(c.Request.Context(), "clear cart after checkout failed err=%v", cerr)
	}
	c.JSON(http.StatusCreated, order)
}

// ------ конфигуратор ПК ------

type buildView struct {
	Build   domain.PCBuild  `json:"build"`
	Summary builder.Summary `json:"summary"`
}

func buildViewOf(s *builder.Session) buildView {
	b := s.Build()
	return buildView{Build: b, Summary: builder.Summarize(&b)}
}

func (h *Handler) loadBuild(c *gin.Context) (*builder.Session, bool) {
	s, err := h.builds.Load(c.Request.Context(), clientID(c))
	if err != nil {
		h.fail(c, "LoadBuild", err)
		return nil, false
	}
	return s, true
}

func (h *Handler) getBuild(c *gin.Context) {
	s, ok := h.loadBuild(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildViewOf(s))
}

func (h *Handler) clearBuild(c *gin.Context) {
	s, ok := h.loadBuild(c)
	if !ok {
		return
	}
	if err := s.Clear(c.Request.Context()); err != nil {
		h.fail(c, "ClearBuild", err)
		return
	}
	c.JSON(http.StatusOK, buildViewOf(s))
}

func slotParam(c *gin.Context) (domain.Slot, bool) {
	slot := domain.Slot(strings.ToLower(c.Param("slot")))
	if !slot.Valid() {
		badRequest(c, "unknown slot")
		return "", false
	}
	return slot, true
}

// setBuildSlot — комплектующее из каталога по product_id.
func (h *Handler) setBuildSlot(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		badRequest(c, "product_id is required")
		return
	}
	product, err := h.store.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		h.fail(c, "Product", err)
		return
	}
	s, ok := h.loadBuild(c)
	if !ok {
		return
	}
	if err := s.Set(c.Request.Context(), slot, domain.ComponentFromProduct(product)); err != nil {
		h.fail(c, "SetSlot", err)
		return
	}
	c.JSON(http.StatusOK, buildViewOf(s))
}

func (h *Handler) removeBuildSlot(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	s, ok := h.loadBuild(c)
	if !ok {
		return
	}
	if err := s.Remove(c.Request.Context(), slot); err != nil {
		h.fail(c, "RemoveSlot", err)
		return
	}
	c.JSON(http.StatusOK, buildViewOf(s))
}
