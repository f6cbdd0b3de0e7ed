package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file (rotated)")
	flagWorkers = flag.Int("workers", 0, "Number of models loaded in parallel")
)

// ParseFlags parses command-line flags. Call this early in main().
// Arguments after the first non-flag (the subcommand) are left in flag.Args().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWorkers > 0 {
		cfg.Library.Workers = *flagWorkers
	}
}
