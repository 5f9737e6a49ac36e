package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

type Config struct {
	Port       string `env:"PORT,         default=8080"`
	Env        string `env:"ENV,          default=development"`
	LogLevel   string `env:"LOG_LEVEL,    default=info"`
	AppBaseURL string `env:"APP_BASE_URL, default=http://localhost:8080"`
	BrandsFile string `env:"BRANDS_FILE"`

	Auth0    Auth0Config
	Session  SessionConfig
	Redis    RedisConfig
	Policy   PolicyConfig
	Redirect RedirectConfig
}

type Auth0Config struct {
	Domain          string `env:"AUTH0_DOMAIN"`
	ClientID        string `env:"AUTH0_CLIENT_ID"`
	ClientSecret    string `env:"AUTH0_CLIENT_SECRET"`
	CallbackURL     string `env:"AUTH0_CALLBACK_URL"`
	Audience        string `env:"AUTH0_AUDIENCE"`
	ClaimsNamespace string `env:"AUTH0_CLAIMS_NAMESPACE, default=https://retailzero.com"`

	MgmtToken        string `env:"AUTH0_MGMT_TOKEN"`
	MgmtClientID     string `env:"AUTH0_MGMT_CLIENT_ID"`
	MgmtClientSecret string `env:"AUTH0_MGMT_CLIENT_SECRET"`
}

type SessionConfig struct {
	Store        string        `env:"SESSION_STORE,         default=redis"`
	Lifetime     time.Duration `env:"SESSION_LIFETIME,      default=24h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,   default=retailzero_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type PolicyConfig struct {
	ZeroRoleCustomerAccess  bool `env:"POLICY_ZERO_ROLE_CUSTOMER_ACCESS,  default=true"`
	StaffCustomerAreaAccess bool `env:"POLICY_STAFF_CUSTOMER_AREA_ACCESS, default=true"`
}

type RedirectConfig struct {
	EntryPaths    []string `env:"REDIRECT_ENTRY_PATHS,          default=/"`
	AdminPath     string   `env:"REDIRECT_ADMIN_PATH,           default=/admin"`
	EmployeePath  string   `env:"REDIRECT_EMPLOYEE_PATH,        default=/employee"`
	BrandPath     string   `env:"REDIRECT_BRAND_PATH,           default=/brand"`
	SelectionPath string   `env:"REDIRECT_BRAND_SELECTION_PATH, default=/brands"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if s := cfg.Session.Store; s != "redis" && s != "memory" {
		return nil, fmt.Errorf("config: SESSION_STORE must be redis or memory, got %q", s)
	}
	return &cfg, nil
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	required := []struct{ name, value string }{
		{"AUTH0_DOMAIN", c.Auth0.Domain},
		{"AUTH0_CLIENT_ID", c.Auth0.ClientID},
		{"AUTH0_CLIENT_SECRET", c.Auth0.ClientSecret},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// CallbackURL defaults to <APP_BASE_URL>/callback.
func (c *Config) CallbackURL() string {
	if c.Auth0.CallbackURL != "" {
		return c.Auth0.CallbackURL
	}
	return strings.TrimSuffix(c.AppBaseURL, "/") + "/callback"
}

func (c *Config) AccessPolicy() domain.AccessPolicy {
	return domain.AccessPolicy{
		ZeroRoleCustomerAccess:  c.Policy.ZeroRoleCustomerAccess,
		StaffCustomerAreaAccess: c.Policy.StaffCustomerAreaAccess,
	}
}

func (c *Config) LandingRoutes() domain.LandingRoutes {
	return domain.LandingRoutes{
		EntryPaths:     c.Redirect.EntryPaths,
		AdminPath:      c.Redirect.AdminPath,
		EmployeePath:   c.Redirect.EmployeePath,
		BrandPath:      c.Redirect.BrandPath,
		BrandSelection: c.Redirect.SelectionPath,
	}
}
