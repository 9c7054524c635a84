package rest

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// afterWrite — false, если ответ с ошибкой уже отправлен.
func (h *Handler) afterWrite(c *gin.Context, op string, err error) bool {
	if err != nil {
		h.fail(c, op, err)
		return false
	}
	return true
}

// ------ товары ------

func (h *Handler) createProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	created, err := h.store.AddProduct(c.Request.Context(), &p)
	if created == nil {
		h.fail(c, "AddProduct", err)
		return
	}
	h.warnRefresh(c, "AddProduct", err)
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	p.ID = c.Param("id")
	if !h.afterWrite(c, "UpdateProduct", h.store.UpdateProduct(c.Request.Context(), &p)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if !h.afterWrite(c, "DeleteProduct", h.store.DeleteProduct(c.Request.Context(), c.Param("id"))) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.store.ExportProducts(c.Request.Context(), &buf); err != nil {
		h.fail(c, "ExportProducts", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ------ категории ------

func (h *Handler) createCategory(c *gin.Context) {
	var cat domain.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	created, err := h.store.AddCategory(c.Request.Context(), &cat)
	if created == nil {
		h.fail(c, "AddCategory", err)
		return
	}
	h.warnRefresh(c, "AddCategory", err)
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateCategory(c *gin.Context) {
	var cat domain.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	cat.ID = c.Param("id")
	if !h.afterWrite(c, "UpdateCategory", h.store.UpdateCategory(c.Request.Context(), &cat)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if !h.afterWrite(c, "DeleteCategory", h.store.DeleteCategory(c.Request.Context(), c.Param("id"))) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ------ заказы, ремонт, покупатели ------

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.store.ListOrders(c.Request.Context())
	if err != nil {
		h.fail(c, "ListOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	if !h.afterWrite(c, "UpdateOrderStatus", h.store.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) listRepairs(c *gin.Context) {
	repairs, err := h.store.ListRepairRequests(c.Request.Context())
	if err != nil {
		h.fail(c, "ListRepairRequests", err)
		return
	}
	c.JSON(http.StatusOK, repairs)
}

type repairStatusRequest struct {
	Status domain.RepairStatus `json:"status"`
}

func (h *Handler) updateRepairStatus(c *gin.Context) {
	var req repairStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	if !h.afterWrite(c, "UpdateRepairStatus", h.store.UpdateRepairStatus(c.Request.Context(), c.Param("id"), req.Status)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status, "progress": req.Status.Progress()})
}

func (h *Handler) updateRepair(c *gin.Context) {
	var upd domain.RepairUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	if !h.afterWrite(c, "UpdateRepairRequest", h.store.UpdateRepairRequest(c.Request.Context(), c.Param("id"), &upd)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) deleteRepair(c *gin.Context) {
	if !h.afterWrite(c, "DeleteRepairRequest", h.store.DeleteRepairRequest(c.Request.Context(), c.Param("id"))) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.store.ListCustomers(c.Request.Context())
	if err != nil {
		h.fail(c, "ListCustomers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// refreshCollection — принудительное обновление кэша коллекции.
func (h *Handler) refreshCollection(c *gin.Context) {
	name, err := usecase.ParseCollection(c.Param("collection"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.RefreshCollection(c.Request.Context(), name, true); err != nil {
		h.fail(c, fmt.Sprintf("Refresh %s", name), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": name, "refreshed": true})
}
