package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/storyfeed/internal/adapter/postgres/category"
	"github.com/heartmarshall/storyfeed/internal/adapter/postgres/story"
	"github.com/heartmarshall/storyfeed/internal/assets"
	"github.com/heartmarshall/storyfeed/internal/auth"
	"github.com/heartmarshall/storyfeed/internal/config"
	"github.com/heartmarshall/storyfeed/internal/dataloader"
	"github.com/heartmarshall/storyfeed/internal/render"
	"github.com/heartmarshall/storyfeed/internal/service/listing"
	"github.com/heartmarshall/storyfeed/internal/shortcode"
	"github.com/heartmarshall/storyfeed/internal/transport/middleware"
	"github.com/heartmarshall/storyfeed/internal/transport/rest"
)

// AssetPrefix is the URL prefix registered static assets are served under.
const AssetPrefix = "/assets"

// web holds the HTTP surface built on top of storage.
type web struct {
	handler http.Handler
	limiter *middleware.RateLimiter
}

func (w *web) Close() {
	if w.limiter != nil {
		w.limiter.Stop()
	}
}

func newWeb(_ context.Context, cfg *config.Config, logger *slog.Logger, st *storage) (*web, error) {
	listingPath := "/" + strings.Trim(cfg.Site.ListingPath, "/")

	renderer, err := render.New(render.Options{
		DateFormat:   cfg.Listing.DateFormat,
		StoryPath:    listingPath,
		FilterURL:    rest.PathFilter,
		SiteTitle:    cfg.Site.Title,
		HomeURL:      cfg.Site.HomeURL,
		HomeLabel:    cfg.Site.HomeLabel,
		SectionURL:   cfg.Site.SectionURL(),
		SectionLabel: cfg.Site.SectionLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	adminTokens, err := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.AdminTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("admin tokens: %w", err)
	}
	nonces := auth.NewNonceManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.NonceTTL)

	registry := assets.NewRegistry(AssetPrefix)
	if err := registry.RegisterDefaults(); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	stories := story.New(st.pool)
	categories := category.New(st.pool)
	loaderRepos := &dataloader.Repos{Category: categories, Block: stories}
	defaults := cfg.Listing.Defaults()
	list := listing.NewService(logger, stories, categories, loaderRepos, defaults)

	expander := shortcode.NewExpander()
	limiter := middleware.NewRateLimiter(time.Minute)

	handler := rest.NewRouter(rest.RouterDeps{
		Logger:      logger,
		Health:      rest.NewHealthHandler(st.pool, st.registry, BuildVersion()),
		Filter:      rest.NewFilterHandler(logger, nonces, list, renderer, defaults, listingPath),
		Categories:  rest.NewCategoryHandler(list, logger),
		Pages:       rest.NewPageHandler(logger, expander, list, renderer, registry, cfg.Site.ListingBody),
		Admin:       rest.NewAdminHandler(st.definitions, logger),
		Assets:      registry.Handler(),
		AssetPrefix: registry.Prefix(),
		ListingPath: listingPath,
		AdminTokens: adminTokens,
		Limiter:     limiter,
		RateLimit:   cfg.Server.FilterRateLimit,
		RateWindow:  cfg.Server.FilterRateWindow,
		CORS:        cfg.CORS,
		Loaders:     dataloader.Middleware(loaderRepos),
	})

	if err := shortcode.RegisterDefaults(expander, logger, list, renderer, nonces, defaults); err != nil {
		limiter.Stop()
		return nil, fmt.Errorf("embed directives: %w", err)
	}
	logger.Info("embed directives registered", slog.Any("tags", expander.Tags()))

	return &web{handler: handler, limiter: limiter}, nil
}
