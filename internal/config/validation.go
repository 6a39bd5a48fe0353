package config

import (
	"fmt"
	"strings"

	"github.com/lumen-ui/lumen/internal/errors"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"text": true, "json": true}

// Validate checks the configuration for values the runtime cannot operate
// with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("server.port %d is outside 1-65535", c.Server.Port))
	}
	if c.Server.Host == "" {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, "server.host is empty")
	}
	if c.Render.CacheSize < -1 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("render.cache_size %d is invalid; use -1 for unbounded", c.Render.CacheSize))
	}
	if c.Development.DebounceMS < 0 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("development.debounce_ms %d is negative", c.Development.DebounceMS))
	}
	if level := strings.ToLower(c.Logging.Level); !validLogLevels[level] {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"logging.level must be one of debug, info, warn, error")
	}
	if format := strings.ToLower(c.Logging.Format); !validLogFormats[format] {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"logging.format must be text or json")
	}
	for _, path := range c.Manifests.Paths {
		if strings.TrimSpace(path) == "" {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid, "manifests.paths contains an empty entry")
		}
	}
	return nil
}
