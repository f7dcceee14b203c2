// ABOUTME: Centralized configuration defaults for podfeed
// ABOUTME: Contains magic numbers and hardcoded values for display, fetching, and storage

package config

import "time"

// HTTP settings
const (
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultImportConcurrency = 4
)

// Display settings
const (
	DefaultListLimit   = 20
	DefaultSearchLimit = 20
	DisplayIDLength    = 8
	SeparatorWidth     = 60
	DateFormatShort    = "02 Jan 06"
	DateFormatLong     = "Mon, 02 Jan 2006 15:04 MST"
)

// Logging
const (
	DefaultLogLevel = "warn"
)

// Storage settings
const (
	DBFilename              = "podfeed.db"
	YAMLFilename            = "podcasts.yaml"
	DefaultPostgresMaxConns = 10
)

// OPML settings
const (
	OPMLExportTitle = "podfeed subscriptions"
)
