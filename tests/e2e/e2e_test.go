//go:build e2e

package e2e_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/storyfeed/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/internal/transport/rest"
)

// TestE2E_HealthEndpoint verifies /health reports the database and the
// definition registry.
func TestE2E_HealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body rest.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Components["database"].Status)
	assert.Equal(t, "ok", body.Components["definitions"].Status)
}

// TestE2E_FilterCategoryFirstPage seeds nine stories in one category and
// requests the first page with the default page size.
func TestE2E_FilterCategoryFirstPage(t *testing.T) {
	ts := setupTestServer(t)

	cat := testhelper.SeedCategory(t, ts.Pool, "Featured")
	base := time.Now().UTC().Truncate(time.Second)
	for i := range 9 {
		testhelper.SeedStory(t, ts.Pool, testhelper.StoryOpts{
			Title:       fmt.Sprintf("Featured %d", i),
			PublishedAt: base.Add(-time.Duration(i) * time.Hour),
			Categories:  []domain.Category{cat},
		})
	}

	status, res := ts.filter(t, url.Values{
		"category": {cat.Slug},
		"paged":    {"1"},
		"columns":  {"3"},
		"nonce":    {ts.nonce(t)},
	})

	require.Equal(t, http.StatusOK, status)
	assert.True(t, res.Success)
	assert.Equal(t, 9, res.Data.FoundPosts)
	assert.Equal(t, 1, res.Data.MaxPages)
	assert.Equal(t, 9, countCards(res.Data.Content))
	assert.Contains(t, res.Data.Content, "Featured 0")
}

// TestE2E_FilterPagination checks page counts and the page past the end.
func TestE2E_FilterPagination(t *testing.T) {
	ts := setupTestServer(t)

	cat := testhelper.SeedCategory(t, ts.Pool, "Paged")
	for range 12 {
		testhelper.SeedStory(t, ts.Pool, testhelper.StoryOpts{Categories: []domain.Category{cat}})
	}

	_, second := ts.filter(t, url.Values{"category": {cat.Slug}, "paged": {"2"}, "nonce": {ts.nonce(t)}})
	assert.True(t, second.Success)
	assert.Equal(t, 12, second.Data.FoundPosts)
	assert.Equal(t, 2, second.Data.MaxPages)
	assert.Equal(t, 3, countCards(second.Data.Content))
	assert.Contains(t, second.Data.Content, "cpht-pagination")

	_, past := ts.filter(t, url.Values{"category": {cat.Slug}, "paged": {"5"}, "nonce": {ts.nonce(t)}})
	assert.True(t, past.Success)
	assert.Equal(t, 12, past.Data.FoundPosts)
	assert.Equal(t, 0, countCards(past.Data.Content))
}

// TestE2E_FilterForgedNonce sends a request with a token that was not issued
// by the server.
func TestE2E_FilterForgedNonce(t *testing.T) {
	ts := setupTestServer(t)

	cat := testhelper.SeedCategory(t, ts.Pool, "Secret")
	testhelper.SeedStory(t, ts.Pool, testhelper.StoryOpts{Categories: []domain.Category{cat}})

	status, res := ts.filter(t, url.Values{"category": {cat.Slug}, "nonce": {"forged"}})

	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, res.Success)
	assert.Equal(t, "security check failed", res.Data.Message)
	assert.Empty(t, res.Data.Content)
}

// TestE2E_ListingPageRoundTrip loads the listing page, takes the nonce it
// hands out and uses it against the filter endpoint.
func TestE2E_ListingPageRoundTrip(t *testing.T) {
	ts := setupTestServer(t)

	cat := testhelper.SeedCategory(t, ts.Pool, "Round Trip")
	testhelper.SeedStory(t, ts.Pool, testhelper.StoryOpts{Title: "Round Trip Story", Categories: []domain.Category{cat}})

	status, page := ts.get(t, "/stories?cpht_category="+cat.Slug)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, `id="cpht-category-filter"`)
	assert.Contains(t, page, `<option value="`+cat.Slug+`" selected>`)
	assert.Contains(t, page, "Round Trip Story")
	assert.Contains(t, page, "/assets/js/storyfeed.js?ver=")

	fstatus, res := ts.filter(t, url.Values{"category": {cat.Slug}, "nonce": {pageNonce(t, page)}})
	require.Equal(t, http.StatusOK, fstatus)
	assert.Equal(t, 1, res.Data.FoundPosts)
}

// TestE2E_StoryPage renders a single story with its blocks.
func TestE2E_StoryPage(t *testing.T) {
	ts := setupTestServer(t)

	st := testhelper.SeedStory(t, ts.Pool, testhelper.StoryOpts{
		Title:   "Single Story",
		Excerpt: "Short summary",
		Blocks: []domain.ContentBlock{
			{Format: domain.BlockFormatHTML, Body: "<blockquote>Quoted</blockquote>"},
		},
	})

	status, page := ts.get(t, "/stories/"+st.Slug)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "<title>Single Story</title>")
	assert.Contains(t, page, "Short summary")
	assert.Contains(t, page, `<blockquote class="cpht-blockquote">`)

	missing, _ := ts.get(t, "/stories/does-not-exist-"+strings.ToLower(t.Name()))
	assert.Equal(t, http.StatusNotFound, missing)
}

// TestE2E_AdminDefinitionSync runs the manual sync twice and checks the second
// run changes nothing.
func TestE2E_AdminDefinitionSync(t *testing.T) {
	ts := setupTestServer(t)
	ts.copyDefinitionDocs(t)

	status, first := ts.admin(t, http.MethodPost, rest.PathAdminSync)
	require.Equal(t, http.StatusOK, status)
	report := first["report"].(map[string]any)
	assert.Nil(t, first["errors"])
	assert.Greater(t, report["created"].(float64)+report["updated"].(float64)+report["unchanged"].(float64), 0.0)

	status, second := ts.admin(t, http.MethodPost, rest.PathAdminSync)
	require.Equal(t, http.StatusOK, status)
	report = second["report"].(map[string]any)
	assert.Equal(t, 0.0, report["created"])
	assert.Equal(t, 0.0, report["updated"])
	assert.Equal(t, 0.0, report["deleted"])

	status, state := ts.admin(t, http.MethodGet, rest.PathAdminState)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, state["sync_required"])
}

// TestE2E_AdminRequiresToken checks the admin routes reject anonymous calls.
func TestE2E_AdminRequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Post(ts.URL+rest.PathAdminSync, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
