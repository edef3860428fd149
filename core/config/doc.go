// Package config provides configuration management for refraction.
//
// It utilizes Viper for loading configuration from environment variables, an optional
// .env file and an optional config file passed with --config.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Lighthouse: endpoint, API token and project id used to fetch tickets
//   - Grid: target backend (xlsx, s3, sql), workbook path/object, sheet and origin cell
//   - Database: MySQL/SQLite connection for the sql backend
//   - Storage: S3/MinIO credentials and bucket for the s3 backend
//   - Server: HTTP port and API key for `refraction start`
//   - Log: logging level, format and optional rotated file
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Lighthouse.ProjectID)
package config
