package rest

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/storyfeed/internal/config"
	"github.com/heartmarshall/storyfeed/internal/transport/middleware"
)

// Paths of the JSON endpoints.
const (
	PathFilter     = "/api/stories/filter"
	PathCategories = "/api/stories/categories"
	PathAdminSync  = "/admin/definitions/sync"
	PathAdminState = "/admin/definitions/status"
)

type adminTokenValidator interface {
	ValidateAdminToken(token string) (string, error)
}

// RouterDeps holds everything NewRouter mounts.
type RouterDeps struct {
	Logger *slog.Logger

	Health     *HealthHandler
	Filter     *FilterHandler
	Categories *CategoryHandler
	Pages      *PageHandler
	Admin      *AdminHandler

	// Assets serves static files under AssetPrefix. It receives the full
	// request path.
	Assets      http.Handler
	AssetPrefix string
	ListingPath string

	AdminTokens adminTokenValidator
	Limiter     *middleware.RateLimiter
	RateLimit   int
	RateWindow  time.Duration
	CORS        config.CORSConfig

	// Loaders installs per-request batch loaders on routes that read stories.
	Loaders middleware.Middleware
}

// NewRouter builds the HTTP handler tree.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)

	var limit middleware.Middleware
	if d.Limiter != nil {
		limit = d.Limiter.Limit(d.RateLimit, d.RateWindow)
	}
	mux.Handle("POST "+PathFilter, middleware.Chain(limit, d.Loaders)(d.Filter))
	mux.Handle("GET "+PathCategories, http.HandlerFunc(d.Categories.List))

	pages := middleware.Chain(d.Loaders)
	listingPage := pages(http.HandlerFunc(d.Pages.Listing))
	storyPage := pages(http.HandlerFunc(d.Pages.Story))
	if listing := strings.Trim(d.ListingPath, "/"); listing == "" {
		// A bare "GET /" would catch every unmatched path.
		mux.Handle("GET /{$}", listingPage)
		mux.Handle("GET /{slug}", storyPage)
	} else {
		mux.Handle("GET /"+listing+"/{$}", listingPage)
		mux.Handle("GET /"+listing, listingPage)
		mux.Handle("GET /"+listing+"/{slug}", storyPage)
	}

	if d.Assets != nil {
		prefix := strings.TrimRight(d.AssetPrefix, "/") + "/"
		mux.Handle("GET "+prefix, d.Assets)
	}

	admin := middleware.AdminAuth(d.AdminTokens)
	mux.Handle("POST "+PathAdminSync, admin(http.HandlerFunc(d.Admin.SyncDefinitions)))
	mux.Handle("GET "+PathAdminState, admin(http.HandlerFunc(d.Admin.DefinitionStatus)))

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.CORS),
	)(mux)
}
