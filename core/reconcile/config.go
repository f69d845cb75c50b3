package reconcile

import (
	"strings"
	"time"
)

// Config holds the receiving site's sync settings.
type Config struct {
	// SiteURL is the public base URL media URLs are rewritten to.
	SiteURL string `mapstructure:"site_url" default:"http://localhost:8080"`
	// DefaultAuthorID is assigned when a remote author cannot be mapped.
	DefaultAuthorID int64 `mapstructure:"default_author_id" default:"1"`
	// Taxonomies is the comma separated list of registered taxonomies.
	Taxonomies string `mapstructure:"taxonomies" default:"category,post_tag"`
	// DefaultTermTaxonomy is the taxonomy of the default term.
	DefaultTermTaxonomy string `mapstructure:"default_term_taxonomy" default:"category"`
	// DefaultTermSlug is removed from posts when a partial term is attached.
	DefaultTermSlug string `mapstructure:"default_term_slug" default:"uncategorized"`
	// ContentThreshold is the default similarity threshold for duplicates.
	ContentThreshold int `mapstructure:"content_threshold" default:"0"`
	// FetchTimeoutSeconds bounds a single binary download.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"30"`
	// MaxDownloadMB caps the size of a single binary download.
	MaxDownloadMB int `mapstructure:"max_download_mb" default:"64"`
	// ThumbnailWidth is the width of the generated thumbnail.
	ThumbnailWidth int `mapstructure:"thumbnail_width" default:"150"`
	// ThumbnailHeight is the height of the generated thumbnail.
	ThumbnailHeight int `mapstructure:"thumbnail_height" default:"150"`
}

// TaxonomyList returns the registered taxonomies.
func (c Config) TaxonomyList() []string {
	var out []string
	for _, t := range strings.Split(c.Taxonomies, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FetchTimeout returns the download timeout.
func (c Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// MaxDownloadBytes returns the download size cap, 64MB when unset.
func (c Config) MaxDownloadBytes() int {
	if c.MaxDownloadMB <= 0 {
		return 64 * 1024 * 1024
	}
	return c.MaxDownloadMB * 1024 * 1024
}

// EngineOptions translates the settings into engine options.
func (c Config) EngineOptions() []EngineOption {
	opts := []EngineOption{WithSiteURL(c.SiteURL)}
	if c.DefaultAuthorID > 0 {
		opts = append(opts, WithDefaultAuthor(c.DefaultAuthorID))
	}
	if c.DefaultTermTaxonomy != "" && c.DefaultTermSlug != "" {
		opts = append(opts, WithDefaultTerm(c.DefaultTermTaxonomy, c.DefaultTermSlug))
	}
	return opts
}
