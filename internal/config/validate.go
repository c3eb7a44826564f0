package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.Secret) < 32 {
		return fmt.Errorf("auth.secret must be at least 32 characters (got %d)", len(c.Auth.Secret))
	}

	if err := c.Listing.validate(); err != nil {
		return fmt.Errorf("listing: %w", err)
	}

	if err := c.Definitions.validate(); err != nil {
		return fmt.Errorf("definitions: %w", err)
	}

	if !strings.HasPrefix(c.Site.ListingPath, "/") {
		return fmt.Errorf("site.listing_path must start with / (got %q)", c.Site.ListingPath)
	}

	if c.Server.FilterRateLimit < 0 {
		return fmt.Errorf("server.filter_rate_limit must be >= 0 (got %d)", c.Server.FilterRateLimit)
	}

	return nil
}

func (l *ListingConfig) validate() error {
	if l.PostsPerPage < 1 && l.PostsPerPage != domain.PageSizeAll {
		return fmt.Errorf("posts_per_page must be positive or %d (got %d)", domain.PageSizeAll, l.PostsPerPage)
	}
	if l.Columns < domain.MinColumns || l.Columns > domain.MaxColumns {
		return fmt.Errorf("columns must be within %d..%d (got %d)", domain.MinColumns, domain.MaxColumns, l.Columns)
	}
	if _, ok := domain.ParseSortField(l.OrderBy); !ok {
		return fmt.Errorf("unknown orderby %q", l.OrderBy)
	}
	if _, ok := domain.ParseSortDirection(l.Order); !ok {
		return fmt.Errorf("unknown order %q", l.Order)
	}
	return nil
}

func (d *DefinitionsConfig) validate() error {
	if strings.TrimSpace(d.Dir) == "" {
		return fmt.Errorf("dir is required")
	}
	if d.PostTypeFile == "" || d.FieldGroupFile == "" {
		return fmt.Errorf("post_type_file and field_group_file are required")
	}
	if d.PostTypeFile == d.FieldGroupFile {
		return fmt.Errorf("post_type_file and field_group_file must differ")
	}
	if d.CheckSchedule != "" {
		if _, err := cron.ParseStandard(d.CheckSchedule); err != nil {
			return fmt.Errorf("check_schedule: %w", err)
		}
	}
	return nil
}

// Defaults converts the listing section into query defaults.
func (l ListingConfig) Defaults() domain.ListingDefaults {
	d := domain.DefaultListing()
	d.PageSize = l.PostsPerPage
	d.Columns = l.Columns
	if f, ok := domain.ParseSortField(l.OrderBy); ok {
		d.SortField = f
	}
	if dir, ok := domain.ParseSortDirection(l.Order); ok {
		d.SortDirection = dir
	}
	return d
}
