package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate performs business-rule validation on the loaded
// configuration. Load calls it automatically.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Identity.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("identity.base_url must be an absolute URL (got %q)", c.Identity.BaseURL)
	}

	if c.Identity.Timeout <= 0 {
		return fmt.Errorf("identity.timeout must be > 0 (got %v)", c.Identity.Timeout)
	}

	level := strings.ToLower(c.Log.Level)
	if !slices.Contains(logLevels, level) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}

	return nil
}
