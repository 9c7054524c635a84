package rest

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Gunvolt24/techstore/internal/auth"
	"github.com/Gunvolt24/techstore/internal/builder"
	"github.com/Gunvolt24/techstore/internal/cart"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/httpx"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

// Deps — зависимости HTTP-слоя.
type Deps struct {
	Store  *usecase.StoreService
	Carts  *cart.Store
	Builds *builder.Store
	Auth   *auth.Gate
	Log    ports.Logger

	HandlerTimeout time.Duration
	// SignInRate — попыток входа в секунду на IP (0 — без ограничения).
	SignInRate  float64
	SignInBurst int
}

type Handler struct {
	store   *usecase.StoreService
	carts   *cart.Store
	builds  *builder.Store
	auth    *auth.Gate
	log     ports.Logger
	timeout time.Duration
	signIn  *ipLimiter
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		store:   d.Store,
		carts:   d.Carts,
		builds:  d.Builds,
		auth:    d.Auth,
		log:     d.Log,
		timeout: d.HandlerTimeout,
		signIn:  newIPLimiter(rate.Limit(d.SignInRate), d.SignInBurst),
	}
}

// RouterOptions — внешние настройки роутера.
type RouterOptions struct {
	// StaticDir — собранная витрина (SPA); пусто — статика не раздаётся.
	StaticDir    string
	AllowOrigins []string
	// OTelServiceName — имя сервиса для otelgin; пусто — трейсинг запросов выключен.
	OTelServiceName string
	// TrustedProxies — CIDR/IP прокси, чьим X-Forwarded-For можно верить.
	// Пусто — заголовок игнорируется, ClientIP берётся из адреса соединения.
	TrustedProxies []string
}

func NewRouter(h *Handler, opts RouterOptions) (*gin.Engine, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// лимит входа ключуется по ClientIP: без явного списка gin доверяет любому XFF
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(gin.Recovery())
	if len(opts.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpx.HeaderClientID, httpx.HeaderRequestID},
			ExposeHeaders:    []string{httpx.HeaderClientID, httpx.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.OTelServiceName != "" {
		r.Use(otelgin.Middleware(opts.OTelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.ClientIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", HandlerTimeout(h.timeout))

	// витрина
	api.GET("/products", h.listProducts)
	api.GET("/products/featured", h.featuredProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)

	// ремонт
	api.POST("/repairs", h.repairIntake)
	api.GET("/repairs/track/:code", h.trackRepair)
	api.GET("/repairs/by-phone/:phone", h.repairsByPhone)

	// корзина и оформление
	api.GET("/cart", h.getCart)
	api.DELETE("/cart", h.clearCart)
	api.POST("/cart/items", h.addCartItem)
	api.PATCH("/cart/items/:id", h.updateCartItem)
	api.DELETE("/cart/items/:id", h.removeCartItem)
	api.POST("/checkout", h.checkout)

	// конфигуратор ПК
	api.GET("/builder", h.getBuild)
	api.DELETE("/builder", h.clearBuild)
	api.PUT("/builder/:slot", h.setBuildSlot)
	api.DELETE("/builder/:slot", h.removeBuildSlot)

	// вход
	api.POST("/auth/sign-in", h.rateLimit(h.signIn), h.signInHandler)
	api.POST("/auth/sign-out", h.signOut)
	api.GET("/auth/me", h.RequireAuth(), h.me)

	admin := api.Group("/admin", h.RequireAuth(), h.RequireAdmin())
	admin.GET("/products/export", h.exportProducts)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)
	admin.GET("/orders", h.listOrders)
	admin.PATCH("/orders/:id/status", h.updateOrderStatus)
	admin.GET("/repairs", h.listRepairs)
	admin.PATCH("/repairs/:id/status", h.updateRepairStatus)
	admin.PUT("/repairs/:id", h.updateRepair)
	admin.DELETE("/repairs/:id", h.deleteRepair)
	admin.GET("/customers", h.listCustomers)
	admin.POST("/cache/:collection/refresh", h.refreshCollection)

	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
		r.StaticFile("/", filepath.Join(opts.StaticDir, "index.html"))
	}

	return r, nil
}
