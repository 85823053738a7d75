package main

import (
	"flag"
	"io"
)

// AppFlags are the command-line overrides. Empty values leave the
// configuration untouched.
type AppFlags struct {
	ConfigFile string
	ListenAddr string
	LogLevel   string
	Once       bool
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("livewatch", flag.ContinueOnError)
	fs.SetOutput(output)

	configFile := fs.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := fs.String("c", "", "Alias for -config")
	listenAddr := fs.String("addr", "", "HTTP listen address, e.g. 0.0.0.0:8080 (overrides config file if set)")
	logLevel := fs.String("log-level", "", "Log level: trace, debug, info, warn or error (overrides config file if set)")
	once := fs.Bool("once", false, "Run a single crawl cycle, print the report JSON to stdout and exit")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{
		ListenAddr: *listenAddr,
		LogLevel:   *logLevel,
		Once:       *once,
	}
	if *configFile != "" {
		flags.ConfigFile = *configFile
	} else if *configFileAlias != "" {
		flags.ConfigFile = *configFileAlias
	}
	return flags, nil
}
