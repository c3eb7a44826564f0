//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/storyfeed/internal/adapter/defstore"
	"github.com/heartmarshall/storyfeed/internal/adapter/postgres"
	"github.com/heartmarshall/storyfeed/internal/adapter/postgres/category"
	defrepo "github.com/heartmarshall/storyfeed/internal/adapter/postgres/definition"
	"github.com/heartmarshall/storyfeed/internal/adapter/postgres/story"
	"github.com/heartmarshall/storyfeed/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/storyfeed/internal/assets"
	authpkg "github.com/heartmarshall/storyfeed/internal/auth"
	"github.com/heartmarshall/storyfeed/internal/config"
	"github.com/heartmarshall/storyfeed/internal/dataloader"
	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/internal/render"
	"github.com/heartmarshall/storyfeed/internal/service/definition"
	"github.com/heartmarshall/storyfeed/internal/service/listing"
	"github.com/heartmarshall/storyfeed/internal/shortcode"
	"github.com/heartmarshall/storyfeed/internal/transport/rest"
)

const (
	testSecret  = "test-secret-at-least-32-chars-long!!"
	testIssuer  = "test-issuer"
	listingPath = "/stories"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL     string
	Client  *http.Client
	Pool    *pgxpool.Pool
	DefsDir string

	jwt    *authpkg.JWTManager
	nonces *authpkg.NonceManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application stack backed by a real
// PostgreSQL container (shared via testhelper) and a temporary definition
// directory.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Pool from the testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Definition store and registry.
	defsDir := t.TempDir()
	store := defstore.New(config.DefinitionsConfig{
		Dir:            defsDir,
		PostTypeFile:   "post_type_cpht_post.json",
		FieldGroupFile: "group_cpht_post_fields.json",
	})
	registry := defrepo.New(pool)
	defs := definition.NewService(logger, registry, store, txm, definition.Options{})

	// 4. Signing.
	jwtMgr, err := authpkg.NewJWTManager(testSecret, testIssuer, time.Hour)
	require.NoError(t, err)
	nonces := authpkg.NewNonceManager(testSecret, testIssuer, time.Hour)

	// 5. Rendering and assets.
	renderer, err := render.New(render.Options{
		StoryPath:    listingPath,
		FilterURL:    rest.PathFilter,
		SiteTitle:    "CPhT Strong",
		HomeURL:      "/",
		HomeLabel:    "Home",
		SectionURL:   listingPath,
		SectionLabel: "CPhT Strong",
	})
	require.NoError(t, err)

	reg := assets.NewRegistry("/assets")
	require.NoError(t, reg.RegisterDefaults())

	// 6. Listing.
	stories := story.New(pool)
	categories := category.New(pool)
	loaderRepos := &dataloader.Repos{Category: categories, Block: stories}
	defaults := domain.DefaultListing()
	list := listing.NewService(logger, stories, categories, loaderRepos, defaults)

	// 7. Router and embed directives.
	expander := shortcode.NewExpander()
	handler := rest.NewRouter(rest.RouterDeps{
		Logger:      logger,
		Health:      rest.NewHealthHandler(pool, registry, "test-version"),
		Filter:      rest.NewFilterHandler(logger, nonces, list, renderer, defaults, listingPath),
		Categories:  rest.NewCategoryHandler(list, logger),
		Pages:       rest.NewPageHandler(logger, expander, list, renderer, reg, "[cpht_breadcrumbs][cpht_posts]"),
		Admin:       rest.NewAdminHandler(defs, logger),
		Assets:      reg.Handler(),
		AssetPrefix: reg.Prefix(),
		ListingPath: listingPath,
		AdminTokens: jwtMgr,
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
			MaxAge:         86400,
		},
		Loaders: dataloader.Middleware(loaderRepos),
	})
	require.NoError(t, shortcode.RegisterDefaults(expander, logger, list, renderer, nonces, defaults))

	// 8. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:     srv.URL,
		Client:  srv.Client(),
		Pool:    pool,
		DefsDir: defsDir,
		jwt:     jwtMgr,
		nonces:  nonces,
	}
}

// filterResult is the decoded filter endpoint envelope.
type filterResult struct {
	Success bool `json:"success"`
	Data    struct {
		Content    string `json:"content"`
		FoundPosts int    `json:"found_posts"`
		MaxPages   int    `json:"max_pages"`
		Message    string `json:"message"`
	} `json:"data"`
}

func (ts *testServer) nonce(t *testing.T) string {
	t.Helper()
	n, err := ts.nonces.Issue(render.FilterAction)
	require.NoError(t, err)
	return n
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := ts.jwt.GenerateAdminToken("e2e")
	require.NoError(t, err)
	return tok
}

func (ts *testServer) filter(t *testing.T, form url.Values) (int, filterResult) {
	t.Helper()

	resp, err := ts.Client.PostForm(ts.URL+rest.PathFilter, form)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out filterResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (ts *testServer) get(t *testing.T, path string) (int, string) {
	t.Helper()

	resp, err := ts.Client.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (ts *testServer) admin(t *testing.T, method, path string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, ts.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// copyDefinitionDocs copies the definition fixtures into the server's
// definition directory.
func (ts *testServer) copyDefinitionDocs(t *testing.T) {
	t.Helper()

	src := filepath.Join("..", "..", "internal", "adapter", "defstore", "testdata")
	for _, name := range []string{"post_type_cpht_post.json", "group_cpht_post_fields.json"} {
		raw, err := os.ReadFile(filepath.Join(src, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(ts.DefsDir, name), raw, 0o644))
	}
}

var nonceAttr = regexp.MustCompile(`data-nonce="([^"]+)"`)

// pageNonce extracts the nonce the listing page hands to the client controller.
func pageNonce(t *testing.T, page string) string {
	t.Helper()
	m := nonceAttr.FindStringSubmatch(page)
	require.Len(t, m, 2, "listing page has no filter nonce")
	return m[1]
}

func countCards(content string) int {
	return strings.Count(content, `class="cpht-grid-item"`)
}
