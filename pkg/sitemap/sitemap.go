package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/techstore/internal/ports"
)

const (
	xmlns      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout = "2006-01-02"
)

// staticRoute — страница SPA без параметров.
type staticRoute struct {
	Path       string
	ChangeFreq string
	Priority   string
}

// StaticRoutes — страницы витрины, попадающие в sitemap всегда.
var StaticRoutes = []staticRoute{
	{"/", "daily", "1.0"},
	{"/products", "daily", "0.9"},
	{"/pc-builder", "weekly", "0.8"},
	{"/repair", "monthly", "0.7"},
	{"/repair/track", "monthly", "0.5"},
	{"/cart", "monthly", "0.3"},
	{"/about", "yearly", "0.4"},
	{"/contact", "yearly", "0.4"},
}

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Stats — итог генерации.
type Stats struct {
	Static   int
	Products int
	// Degraded — товары получить не удалось, записаны только статические страницы.
	Degraded bool
}

// Generator — sitemap из статических страниц и карточек товаров.
type Generator struct {
	src     ports.SitemapSource
	baseURL string
	clock   ports.Clock
	log     ports.Logger
}

// New — src может быть nil: тогда в sitemap только статические страницы.
func New(src ports.SitemapSource, baseURL string, clk ports.Clock, log ports.Logger) *Generator {
	return &Generator{
		src:     src,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		clock:   clk,
		log:     log,
	}
}

// Build — набор URL. Ошибка источника не фатальна: предупреждение в лог и только статика.
func (g *Generator) Build(ctx context.Context) (URLSet, Stats) {
	today := g.clock.Now().UTC().Format(dateLayout)
	set := URLSet{Xmlns: xmlns, URLs: make([]URL, 0, len(StaticRoutes))}
	for _, r := range StaticRoutes {
		set.URLs = append(set.URLs, URL{
			Loc:        g.baseURL + r.Path,
			LastMod:    today,
			ChangeFreq: r.ChangeFreq,
			Priority:   r.Priority,
		})
	}
	st := Stats{Static: len(StaticRoutes)}

	if g.src == nil {
		g.log.Warnf(ctx, "sitemap: remote store is not configured, writing static routes only")
		st.Degraded = true
		return set, st
	}
	products, err := g.src.ListSitemapProducts(ctx)
	if err != nil {
		g.log.Warnf(ctx, "sitemap: fetch products failed, writing static routes only err=%v", err)
		st.Degraded = true
		return set, st
	}

	for _, p := range products {
		if p.ID == "" {
			continue
		}
		u := URL{
			Loc:        g.baseURL + "/product/" + url.PathEscape(p.ID),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		}
		if !p.UpdatedAt.IsZero() {
			u.LastMod = p.UpdatedAt.UTC().Format(dateLayout)
		}
		set.URLs = append(set.URLs, u)
		st.Products++
	}
	return set, st
}

// Write — sitemap в XML с заголовком.
func (g *Generator) Write(ctx context.Context, w io.Writer) (Stats, error) {
	set, st := g.Build(ctx)
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return st, fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return st, fmt.Errorf("encode sitemap: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return st, fmt.Errorf("write sitemap: %w", err)
	}
	return st, nil
}

// WriteFile — запись через временный файл и rename, каталог создаётся при необходимости.
func (g *Generator) WriteFile(ctx context.Context, path string) (Stats, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sitemap-*.xml")
	if err != nil {
		return Stats{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	st, err := g.Write(ctx, tmp)
	if err != nil {
		_ = tmp.Close()
		return st, err
	}
	if err := tmp.Close(); err != nil {
		return st, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return st, fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return st, fmt.Errorf("rename: %w", err)
	}
	g.log.Infof(ctx, "sitemap written path=%s static=%d products=%d", path, st.Static, st.Products)
	return st, nil
}
