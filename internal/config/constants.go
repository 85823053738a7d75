package config

const (
	// Crawler Defaults
	DefaultListingURL                = "https://sportsurge.ws/#streams"
	DefaultCrawlerRequestTimeoutSecs = 20
	DefaultCrawlerMaxRedirects       = 10
	DefaultCrawlerRespectRobotsTxt   = false
	DefaultCrawlerMaxBodySizeMB      = 10

	// Browser Defaults
	DefaultBrowserBackend              = "rod"
	DefaultBrowserWindowWidth          = 1366
	DefaultBrowserWindowHeight         = 860
	DefaultBrowserPageLoadTimeoutSecs  = 30
	DefaultBrowserReadyWaitSecs        = 10
	DefaultBrowserClickWaitSecs        = 6
	DefaultBrowserKeyWaitSecs          = 4
	DefaultBrowserRevealTimeoutSecs    = 150
	DefaultBrowserMaxConcurrentReveals = 1

	// Evidence Defaults
	DefaultEvidenceProbeTimeoutSecs = 20

	// Scheduler Defaults
	DefaultSchedulerIntervalSecs = 90

	// Server Defaults
	DefaultServerListenAddr       = "0.0.0.0:8080"
	DefaultServerReadTimeoutSecs  = 15
	DefaultServerWriteTimeoutSecs = 300

	// EPG Defaults
	DefaultEPGTimezone      = "America/Los_Angeles"
	DefaultEPGGeneratorName = "livewatch"

	// Resource Watcher Defaults
	DefaultResourceCheckIntervalSecs  = 30
	DefaultResourceMaxMemoryMB        = 1024
	DefaultResourceMaxGoroutines      = 10000
	DefaultResourceSystemMemThreshold = 0.9

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// ConfigPathEnv overrides the default config file lookup.
	ConfigPathEnv = "LIVEWATCH_CONFIG_PATH"

	maxConfigFileSize = 10 * 1024 * 1024
)
