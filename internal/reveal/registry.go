package reveal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/common"
)

// DriverConfig describes the browser a driver launches.
type DriverConfig struct {
	Backend      string
	ChromePath   string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
}

const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

type driverFactory func(DriverConfig, zerolog.Logger) Driver

var backends = map[string]driverFactory{
	BackendRod: func(c DriverConfig, l zerolog.Logger) Driver {
		return NewRodDriver(c, l)
	},
	BackendChromedp: func(c DriverConfig, l zerolog.Logger) Driver {
		return NewChromedpDriver(c, l)
	},
}

// Backends lists the registered backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDriver returns the driver registered under cfg.Backend. An empty
// backend selects rod.
func NewDriver(cfg DriverConfig, logger zerolog.Logger) (Driver, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if name == "" {
		name = BackendRod
	}
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.Backend)
	}
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = 1366
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = 860
	}
	return factory(cfg, logger), nil
}
