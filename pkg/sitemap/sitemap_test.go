package sitemap_test

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports/mocks"
	"github.com/Gunvolt24/techstore/pkg/clock"
	"github.com/Gunvolt24/techstore/pkg/sitemap"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func locs(set sitemap.URLSet) []string {
	out := make([]string, len(set.URLs))
	for i, u := range set.URLs {
		out[i] = u.Loc
	}
	return out
}

func TestBuild_StaticAndProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSitemapSource(ctrl)
	src.EXPECT().ListSitemapProducts(gomock.Any()).Return([]domain.SitemapProduct{
		{ID: "p1", UpdatedAt: time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC)},
		{ID: ""},
		{ID: "p 2"},
	}, nil)

	g := sitemap.New(src, "https://shop.example/", clock.NewManual(now), noopLogger{})
	set, st := g.Build(context.Background())

	if st.Degraded || st.Static != len(sitemap.StaticRoutes) || st.Products != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	got := locs(set)
	if got[0] != "https://shop.example/" {
		t.Fatalf("trailing slash must be trimmed from base url, got %q", got[0])
	}
	last := set.URLs[len(set.URLs)-2:]
	if last[0].Loc != "https://shop.example/product/p1" || last[0].LastMod != "2025-01-02" {
		t.Fatalf("unexpected product url: %+v", last[0])
	}
	if last[1].Loc != "https://shop.example/product/p%202" || last[1].LastMod != "" {
		t.Fatalf("unexpected product url: %+v", last[1])
	}
	if set.URLs[1].LastMod != "2025-03-14" {
		t.Fatalf("static lastmod must be today, got %q", set.URLs[1].LastMod)
	}
}

func TestBuild_FetchError_StaticOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSitemapSource(ctrl)
	src.EXPECT().ListSitemapProducts(gomock.Any()).Return(nil, errors.New("connection refused"))

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warnf(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	set, st := sitemap.New(src, "https://shop.example", clock.NewManual(now), log).Build(context.Background())
	if !st.Degraded || st.Products != 0 {
		t.Fatalf("want degraded static-only sitemap, got %+v", st)
	}
	if len(set.URLs) != len(sitemap.StaticRoutes) {
		t.Fatalf("want %d static urls, got %d", len(sitemap.StaticRoutes), len(set.URLs))
	}
}

func TestBuild_NoSource_StaticOnly(t *testing.T) {
	_, st := sitemap.New(nil, "https://shop.example", clock.NewManual(now), noopLogger{}).Build(context.Background())
	if !st.Degraded || st.Static != len(sitemap.StaticRoutes) {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestWrite_ValidXML(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSitemapSource(ctrl)
	src.EXPECT().ListSitemapProducts(gomock.Any()).Return([]domain.SitemapProduct{{ID: "a&b", UpdatedAt: now}}, nil)

	var buf bytes.Buffer
	if _, err := sitemap.New(src, "https://shop.example", clock.NewManual(now), noopLogger{}).Write(context.Background(), &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), xml.Header) {
		t.Fatalf("missing xml header")
	}

	var parsed sitemap.URLSet
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid xml: %v\n%s", err, buf.String())
	}
	if parsed.Xmlns != "http://www.sitemaps.org/schemas/sitemap/0.9" {
		t.Fatalf("xmlns: %q", parsed.Xmlns)
	}
	if n := len(parsed.URLs); n != len(sitemap.StaticRoutes)+1 {
		t.Fatalf("want %d urls, got %d", len(sitemap.StaticRoutes)+1, n)
	}
	if got := parsed.URLs[len(parsed.URLs)-1].Loc; got != "https://shop.example/product/a&b" {
		t.Fatalf("product loc: %q", got)
	}
}

func TestWriteFile_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "sitemap.xml")

	st, err := sitemap.New(nil, "https://shop.example", clock.NewManual(now), noopLogger{}).WriteFile(context.Background(), path)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if st.Static != len(sitemap.StaticRoutes) {
		t.Fatalf("unexpected stats: %+v", st)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(raw, []byte("<loc>https://shop.example/contact</loc>")) {
		t.Fatalf("sitemap misses static route:\n%s", raw)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %d entries", len(entries))
	}
}
