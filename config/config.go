// Package config provides the tenant configuration consumed by schemaroute at startup.
//
// The configuration is an ordered list of tenant registrations plus one default
// connection string. It can be built programmatically with New/WithTenant, or
// loaded from a file through viper with Load/LoadFile. Either way it should be
// validated once before a tenant provider is built from it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ConfigKey is the section name the tenant configuration is read from.
const ConfigKey = "TenantConfiguration"

var (
	// ErrConfigurationConflict is returned when two tenants share the same name.
	ErrConfigurationConflict = errors.New("tenant configuration conflict")

	// ErrMissingConnectionString is returned when the default connection string is blank.
	ErrMissingConnectionString = errors.New("default connection string is required")

	// ErrInvalidTenantName is returned when a tenant is registered without a name.
	ErrInvalidTenantName = errors.New("tenant name is required")
)

// Tenant is a single tenant registration.
type Tenant struct {
	// Name identifies the tenant. It doubles as the tenant's schema name.
	Name string `mapstructure:"name"`
	// ConnectionString optionally overrides the default connection string for this tenant.
	ConnectionString string `mapstructure:"connectionString"`
}

// TenantConfiguration is the complete tenant configuration.
type TenantConfiguration struct {
	// ConnectionString is used by every tenant without an override and when no tenant is active.
	ConnectionString string `mapstructure:"connectionString"`
	// Tenants is the ordered list of registered tenants.
	Tenants []Tenant `mapstructure:"tenants"`
}

// New returns a configuration with the given default connection string and tenants.
//
// Example:
//
//	cfg := config.New("postgres://localhost/app",
//		config.Tenant{Name: "acme", ConnectionString: "postgres://acme-host/app"},
//		config.Tenant{Name: "globex"},
//	)
func New(connectionString string, tenants ...Tenant) *TenantConfiguration {
	return &TenantConfiguration{
		ConnectionString: connectionString,
		Tenants:          tenants,
	}
}

// WithTenant returns a copy of the configuration with one more tenant appended.
func (c *TenantConfiguration) WithTenant(name, connectionString string) *TenantConfiguration {
	tenants := make([]Tenant, len(c.Tenants), len(c.Tenants)+1)
	copy(tenants, c.Tenants)
	tenants = append(tenants, Tenant{Name: name, ConnectionString: connectionString})

	return &TenantConfiguration{
		ConnectionString: c.ConnectionString,
		Tenants:          tenants,
	}
}

// TenantNames returns the registered tenant names in configuration order.
func (c *TenantConfiguration) TenantNames() []string {
	names := make([]string, 0, len(c.Tenants))
	for _, t := range c.Tenants {
		names = append(names, t.Name)
	}
	return names
}

// IsRegistered reports whether a tenant with exactly this name is registered.
func (c *TenantConfiguration) IsRegistered(name string) bool {
	for _, t := range c.Tenants {
		if t.Name == name {
			return true
		}
	}
	return false
}

// ConnectionStringOverrides returns the tenant -> connection string map built from every
// tenant with a non-blank override. Tenants without an override are left out and fall
// back to the default connection string at read time.
func (c *TenantConfiguration) ConnectionStringOverrides() map[string]string {
	overrides := make(map[string]string)
	for _, t := range c.Tenants {
		if strings.TrimSpace(t.ConnectionString) == "" {
			continue
		}
		overrides[t.Name] = t.ConnectionString
	}
	return overrides
}

// Validate checks the configuration for conditions that make tenant lookups ambiguous
// or impossible. Lookups are exact string matches, so "acme" and "ACME" are distinct.
func (c *TenantConfiguration) Validate() error {
	if strings.TrimSpace(c.ConnectionString) == "" {
		return ErrMissingConnectionString
	}

	seen := make(map[string]struct{}, len(c.Tenants))
	for i, t := range c.Tenants {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: tenant at position %d", ErrInvalidTenantName, i)
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("%w: duplicate tenant name %q", ErrConfigurationConflict, t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	return nil
}

// Load reads and validates the tenant configuration from the ConfigKey section of v.
func Load(v *viper.Viper) (*TenantConfiguration, error) {
	var cfg TenantConfiguration
	if err := v.UnmarshalKey(ConfigKey, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ConfigKey, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile reads and validates the tenant configuration from a YAML, JSON or TOML file.
func LoadFile(path string) (*TenantConfiguration, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Load(v)
}
