package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator collects every configuration problem before failing.
type Validator struct {
	config *Config
	errors []string
}

func NewValidator(cfg *Config) *Validator {
	return &Validator{
		config: cfg,
		errors: []string{},
	}
}

func (v *Validator) Validate() error {
	v.validateBaseURL()
	v.validateWaits()
	v.validateProfiles()

	if len(v.errors) > 0 {
		return fmt.Errorf("config validation failed:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *Validator) validateBaseURL() {
	raw := v.config.App.BaseURL
	if raw == "" {
		v.addError("app.base_url is not set")
		return
	}
	u, err := url.Parse(raw)
	if err != nil {
		v.addError(fmt.Sprintf("app.base_url %q is not a URL: %v", raw, err))
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		v.addError(fmt.Sprintf("app.base_url %q must use http or https", raw))
	}
	if u.Host == "" {
		v.addError(fmt.Sprintf("app.base_url %q has no host", raw))
	}
}

func (v *Validator) validateWaits() {
	if v.config.Browser.ImplicitWait <= 0 {
		v.addError("browser.implicit_wait must be positive")
	}
	if v.config.Browser.SlowMo < 0 {
		v.addError("browser.slow_mo must not be negative")
	}
	if v.config.Wait.Timeout <= 0 {
		v.addError("wait.timeout must be positive")
	}
	if v.config.Wait.PollInterval <= 0 {
		v.addError("wait.poll_interval must be positive")
	} else if v.config.Wait.PollInterval > v.config.Wait.Timeout {
		v.addError("wait.poll_interval must not exceed wait.timeout")
	}
}

func (v *Validator) validateProfiles() {
	for _, name := range v.config.Profiles {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := Lookup(name); err != nil {
			v.addError(err.Error())
		}
	}
}

func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
