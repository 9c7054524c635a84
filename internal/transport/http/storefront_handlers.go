package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/httpx"
	"github.com/gin-gonic/gin"
)

const (
	defaultFeatured = 8
	maxPageLimit    = 100
)

// productView — товар с производными полями для карточки.
type productView struct {
	domain.Product
	OnSale          bool               `json:"on_sale"`
	DiscountPercent int                `json:"discount_percent"`
	StockStatus     domain.StockStatus `json:"stock_status"`
}

func viewOf(p *domain.Product) productView {
	return productView{
		Product:         *p,
		OnSale:          p.OnSale(),
		DiscountPercent: p.DiscountPercent(),
		StockStatus:     p.StockStatus(),
	}
}

func viewsOf(products []domain.Product) []productView {
	out := make([]productView, len(products))
	for i := range products {
		out[i] = viewOf(&products[i])
	}
	return out
}

func (h *Handler) listProducts(c *gin.Context) {
	minPrice, ok := httpx.QueryFloat(c, "min_price")
	if !ok {
		badRequest(c, "min_price must be a number")
		return
	}
	maxPrice, ok := httpx.QueryFloat(c, "max_price")
	if !ok {
		badRequest(c, "max_price must be a number")
		return
	}

	q := usecase.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		InStock:  httpx.QueryBool(c, "in_stock"),
		Featured: httpx.QueryBool(c, "featured"),
		Sort:     usecase.ProductSort(c.Query("sort")),
	}
	if _, present := c.GetQuery("limit"); present {
		q.Limit, q.Offset = httpx.ParseLimitOffset(c, maxPageLimit, maxPageLimit)
	} else if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		q.Offset = v
	}

	page, err := h.store.SearchProducts(c.Request.Context(), q)
	if err != nil {
		h.fail(c, "SearchProducts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":   viewsOf(page.Items),
		"total":   page.Total,
		"loading": h.store.Loading(),
	})
}

func (h *Handler) featuredProducts(c *gin.Context) {
	n := defaultFeatured
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		n = httpx.ClampInt(v, 1, maxPageLimit)
	}
	products, err := h.store.FeaturedProducts(c.Request.Context(), n)
	if err != nil {
		h.fail(c, "FeaturedProducts", err)
		return
	}
	c.JSON(http.StatusOK, viewsOf(products))
}

func (h *Handler) getProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	p, err := h.store.Product(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Product", err)
		return
	}
	c.JSON(http.StatusOK, viewOf(p))
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, "ListCategories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ------ ремонт ------

func (h *Handler) repairIntake(c *gin.Context) {
	var in domain.RepairIntake
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	req, err := h.store.AddRepairRequest(c.Request.Context(), &in)
	if req == nil {
		h.fail(c, "AddRepairRequest", err)
		return
	}
	h.warnRefresh(c, "AddRepairRequest", err)
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) trackRepair(c *gin.Context) {
	tracking, err := h.store.TrackRepair(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, "TrackRepair", err)
		return
	}
	c.JSON(http.StatusOK, tracking)
}

func (h *Handler) repairsByPhone(c *gin.Context) {
	repairs, err := h.store.RepairsByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.fail(c, "RepairsByPhone", err)
		return
	}
	c.JSON(http.StatusOK, repairs)
}
