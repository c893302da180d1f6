// Package config provides configuration management for shoplist.
//
// It uses Viper for loading configuration from environment variables and an
// optional .env file (loaded with godotenv). Defaults come from the `default`
// struct tags of each partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, environment)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket holding the catalog override
//   - Log: Logging level and format
//   - Catalog: fuzzy match threshold, memo size, locales, catalog object name
//   - Lists: anomaly ceilings, poll interval, cleanup batch size, delete rate
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Lists.ViewCeiling)
package config
