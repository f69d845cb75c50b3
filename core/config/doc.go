// Package config provides configuration management for the site sync receiver.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, shared sync key, body limit)
//   - Database: MySQL (or SQLite) connection details
//   - Storage: S3/MinIO credentials and the media bucket
//   - Log: Logging level and format
//   - Sync: site URL, default author, default term and asset settings
//
// Every key can be set through its environment variable, with dots replaced
// by underscores (SYNC_SITE_URL sets sync.site_url).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.SiteURL)
package config
