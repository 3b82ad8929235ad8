package config

import (
	"fmt"
	"net/url"

	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration: all four
// session settings present and the URLs parseable.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("settings.api_key", c.Settings.APIKey, nonEmpty),
		criterio.Run("settings.base_url", c.Settings.BaseURL, validURL),
		criterio.Run("settings.model_name", c.Settings.ModelName, nonEmpty),
		criterio.Run("settings.backend_url", c.Settings.BackendURL, validURL),
	)
}

func nonEmpty(v string) error {
	if v == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func validURL(v string) error {
	if v == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(v)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https")
	}
	return nil
}
