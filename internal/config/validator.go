package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"

	"github.com/aleister1102/livewatch/internal/common"
)

var browserBackends = []string{"rod", "chromedp"}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	validate := validator.New()

	_ = validate.RegisterValidation("fileexists", func(fl validator.FieldLevel) bool {
		filePath := fl.Field().String()
		if filePath == "" {
			return true
		}
		_, err := os.Stat(filePath)
		return !os.IsNotExist(err)
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("browserbackend", func(fl validator.FieldLevel) bool {
		backend := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		if backend == "" {
			return true
		}
		for _, b := range browserBackends {
			if backend == b {
				return true
			}
		}
		return false
	})

	_ = validate.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		tz := fl.Field().String()
		if tz == "" {
			return true
		}
		_, err := time.LoadLocation(tz)
		return err == nil
	})

	// Port 0 binds an ephemeral port.
	_ = validate.RegisterValidation("listenaddr", func(fl validator.FieldLevel) bool {
		_, port, err := net.SplitHostPort(fl.Field().String())
		if err != nil {
			return false
		}
		n, err := strconv.Atoi(port)
		return err == nil && n >= 0 && n <= 65535
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		// Drop the root type name: "GlobalConfig.CrawlerConfig.ListingURLs[0]"
		fieldName := strings.TrimPrefix(e.StructNamespace(), "GlobalConfig.")
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("%w:\n  %s", common.ErrInvalidConfiguration, strings.Join(messages, "\n  "))
}
