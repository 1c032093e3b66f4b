package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
		ShutdownTimeout    string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Identity struct {
		// gotrue | jwt
		Provider    string `yaml:"provider"`
		URL         string `yaml:"url"`
		APIKey      string `yaml:"api_key"`
		JWTSecret   string `yaml:"jwt_secret"`
		JWTAudience string `yaml:"jwt_audience"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"identity"`

	Storage struct {
		// postgres | postgrest | memory
		Driver        string `yaml:"driver"`
		DSN           string `yaml:"dsn"`
		URL           string `yaml:"url"`
		ServiceKey    string `yaml:"service_key"`
		Timeout       string `yaml:"timeout"`
		SeedFile      string `yaml:"seed_file"`
		ProfilesTable string `yaml:"profiles_table"`
		RoleProcedure string `yaml:"role_procedure"`
		Postgres      struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Rate struct {
		Enabled     bool   `yaml:"enabled"`
		Window      string `yaml:"window"`
		MaxRequests int    `yaml:"max_requests"`
		Redis       struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"rate"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Load lee el YAML (path vacío => solo defaults + env), aplica defaults,
// overrides por env y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":4000"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Identity.Provider == "" {
		c.Identity.Provider = "gotrue"
	}
	if c.Identity.Timeout == "" {
		c.Identity.Timeout = "10s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgrest"
	}
	if c.Storage.Timeout == "" {
		c.Storage.Timeout = "10s"
	}
	if c.Storage.ProfilesTable == "" {
		c.Storage.ProfilesTable = "profiles"
	}
	if c.Storage.RoleProcedure == "" {
		c.Storage.RoleProcedure = "set_user_role"
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 60
	}
	if c.Rate.Redis.Prefix == "" {
		c.Rate.Redis.Prefix = "pg:rl:"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides pisa el YAML con variables de entorno. Los alias SUPABASE_*
// alimentan identity y storage a la vez; las variables específicas ganan.
func (c *Config) applyEnvOverrides() {
	// APP / LOG
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER. PORT es el alias de plataformas tipo PaaS.
	if v, ok := getEnvStr("PORT"); ok {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// SUPABASE aliases
	if v, ok := getEnvStr("SUPABASE_URL"); ok {
		c.Identity.URL = v
		c.Storage.URL = v
	}
	if v, ok := getEnvStr("SUPABASE_SERVICE_KEY"); ok {
		c.Identity.APIKey = v
		c.Storage.ServiceKey = v
	}
	if v, ok := getEnvStr("SUPABASE_JWT_SECRET"); ok {
		c.Identity.JWTSecret = v
	}

	// IDENTITY
	if v, ok := getEnvStr("IDENTITY_PROVIDER"); ok {
		c.Identity.Provider = strings.ToLower(v)
	}
	if v, ok := getEnvStr("IDENTITY_URL"); ok {
		c.Identity.URL = v
	}
	if v, ok := getEnvStr("IDENTITY_API_KEY"); ok {
		c.Identity.APIKey = v
	}
	if v, ok := getEnvStr("IDENTITY_JWT_SECRET"); ok {
		c.Identity.JWTSecret = v
	}
	if v, ok := getEnvStr("IDENTITY_JWT_AUDIENCE"); ok {
		c.Identity.JWTAudience = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	} else if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("STORAGE_URL"); ok {
		c.Storage.URL = v
	}
	if v, ok := getEnvStr("STORAGE_SERVICE_KEY"); ok {
		c.Storage.ServiceKey = v
	}
	if v, ok := getEnvStr("STORAGE_SEED_FILE"); ok {
		c.Storage.SeedFile = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("RATE_WINDOW"); ok {
		c.Rate.Window = v
	}
	if v, ok := getEnvInt("RATE_MAX_REQUESTS"); ok {
		c.Rate.MaxRequests = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Rate.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Rate.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Rate.Redis.Prefix = v
	}

	// METRICS
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
	if v, ok := getEnvStr("METRICS_PATH"); ok {
		c.Metrics.Path = v
	}
}

// Validate verifica drivers, credenciales y duraciones.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"identity.timeout":        c.Identity.Timeout,
		"storage.timeout":         c.Storage.Timeout,
		"rate.window":             c.Rate.Window,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}

	switch c.Identity.Provider {
	case "gotrue":
		if strings.TrimSpace(c.Identity.URL) == "" {
			return fmt.Errorf("config: identity.url (or SUPABASE_URL) required for gotrue provider")
		}
	case "jwt":
		if strings.TrimSpace(c.Identity.JWTSecret) == "" {
			return fmt.Errorf("config: identity.jwt_secret (or SUPABASE_JWT_SECRET) required for jwt provider")
		}
	default:
		return fmt.Errorf("config: unknown identity.provider %q (gotrue|jwt)", c.Identity.Provider)
	}

	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("config: storage.dsn required for postgres driver")
		}
	case "postgrest":
		if strings.TrimSpace(c.Storage.URL) == "" || strings.TrimSpace(c.Storage.ServiceKey) == "" {
			return fmt.Errorf("config: storage.url and storage.service_key (or SUPABASE_URL/SUPABASE_SERVICE_KEY) required for postgrest driver")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown storage.driver %q (postgres|postgrest|memory)", c.Storage.Driver)
	}

	if c.Rate.Enabled && c.Rate.MaxRequests <= 0 {
		return fmt.Errorf("config: rate.max_requests must be > 0")
	}
	return nil
}

// Dur parsea una duración ya validada.
func Dur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
