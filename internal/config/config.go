package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Listing     ListingConfig     `yaml:"listing"`
	Site        SiteConfig        `yaml:"site"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// FilterRateLimit is the number of filter requests allowed per client IP
	// within FilterRateWindow. Zero disables the limiter.
	FilterRateLimit  int           `yaml:"filter_rate_limit"  env:"SERVER_FILTER_RATE_LIMIT"  env-default:"60"`
	FilterRateWindow time.Duration `yaml:"filter_rate_window" env:"SERVER_FILTER_RATE_WINDOW" env-default:"1m"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// AuthConfig holds signing settings for filter nonces and admin tokens.
type AuthConfig struct {
	Secret        string        `yaml:"secret"          env:"AUTH_SECRET"          env-required:"true"`
	Issuer        string        `yaml:"issuer"          env:"AUTH_ISSUER"          env-default:"storyfeed"`
	NonceTTL      time.Duration `yaml:"nonce_ttl"       env:"AUTH_NONCE_TTL"       env-default:"12h"`
	AdminTokenTTL time.Duration `yaml:"admin_token_ttl" env:"AUTH_ADMIN_TOKEN_TTL" env-default:"1h"`
}

// ListingConfig holds the defaults applied to listing requests.
type ListingConfig struct {
	PostsPerPage int    `yaml:"posts_per_page" env:"LISTING_POSTS_PER_PAGE" env-default:"9"`
	Columns      int    `yaml:"columns"        env:"LISTING_COLUMNS"        env-default:"3"`
	OrderBy      string `yaml:"orderby"        env:"LISTING_ORDERBY"        env-default:"date"`
	Order        string `yaml:"order"          env:"LISTING_ORDER"          env-default:"DESC"`
	DateFormat   string `yaml:"date_format"    env:"LISTING_DATE_FORMAT"    env-default:"January 2, 2006"`
}

// SiteConfig holds navigation labels and paths used by rendered pages.
type SiteConfig struct {
	Title        string `yaml:"title"         env:"SITE_TITLE"         env-default:"CPhT Strong"`
	HomeURL      string `yaml:"home_url"      env:"SITE_HOME_URL"      env-default:"/"`
	HomeLabel    string `yaml:"home_label"    env:"SITE_HOME_LABEL"    env-default:"Home"`
	SectionLabel string `yaml:"section_label" env:"SITE_SECTION_LABEL" env-default:"CPhT Strong"`
	// SectionPath is the "See All" target. Empty means ListingPath.
	SectionPath string `yaml:"section_path"  env:"SITE_SECTION_PATH"`
	ListingPath  string `yaml:"listing_path"  env:"SITE_LISTING_PATH"  env-default:"/stories"`
	// ListingBody is the page body served at ListingPath. Embed directives are expanded.
	ListingBody string `yaml:"listing_body" env:"SITE_LISTING_BODY" env-default:"[cpht_breadcrumbs][cpht_posts]"`
}

// DefinitionsConfig holds the on-disk definition document settings.
type DefinitionsConfig struct {
	Dir            string        `yaml:"dir"             env:"DEFINITIONS_DIR"             env-default:"./acf-json"`
	PostTypeFile   string        `yaml:"post_type_file"  env:"DEFINITIONS_POST_TYPE_FILE"  env-default:"post_type_cpht_post.json"`
	FieldGroupFile string        `yaml:"field_group_file" env:"DEFINITIONS_FIELD_GROUP_FILE" env-default:"group_cpht_post_fields.json"`
	Watch          bool          `yaml:"watch"           env:"DEFINITIONS_WATCH"           env-default:"true"`
	WatchDebounce  time.Duration `yaml:"watch_debounce"  env:"DEFINITIONS_WATCH_DEBOUNCE"  env-default:"500ms"`
	// CheckSchedule is a cron expression for the advisory sync check. Empty disables it.
	CheckSchedule string `yaml:"check_schedule" env:"DEFINITIONS_CHECK_SCHEDULE" env-default:"@every 1h"`
	// RetryDelay is how long the single deferred reconcile waits when the
	// registry was not ready at startup.
	RetryDelay time.Duration `yaml:"retry_delay" env:"DEFINITIONS_RETRY_DELAY" env-default:"2s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SectionURL is the section breadcrumb and "See All" link target.
func (s SiteConfig) SectionURL() string {
	if s.SectionPath != "" {
		return s.SectionPath
	}
	return s.ListingPath
}
