package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/Gunvolt24/techstore/config"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/internal/repo/postgres"
	"github.com/Gunvolt24/techstore/pkg/clock"
	"github.com/Gunvolt24/techstore/pkg/logger"
	"github.com/Gunvolt24/techstore/pkg/sitemap"
	"github.com/joho/godotenv"
)

// CLI: статический sitemap витрины. Недоступное хранилище не ошибка — пишутся только
// статические страницы.
func main() {
	out := flag.String("out", "public/sitemap.xml", "output path")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadSitemap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logg, cleanup, err := logger.NewZapLogger(false, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	var src ports.SitemapSource
	if cfg.RemoteURL != "" {
		pool, err := postgres.NewPool(ctx, withPassword(cfg.RemoteURL, cfg.RemoteKey), 2)
		if err != nil {
			logg.Warnf(ctx, "remote store unavailable: %v", err)
		} else {
			defer pool.Close()
			src = postgres.NewProductRepository(pool)
		}
	}

	st, err := sitemap.New(src, cfg.BaseURL, clock.NewReal(), logg).WriteFile(ctx, *out)
	if err != nil {
		logg.Errorf(ctx, "write sitemap: %v", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "sitemap ok: %d static, %d products (%s)\n", st.Static, st.Products, *out)
}

// withPassword — пароль из REMOTE_KEY подставляется в DSN, если в URL его нет.
func withPassword(dsn, password string) string {
	if password == "" {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, set := u.User.Password(); set {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), password)
	return u.String()
}
