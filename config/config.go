package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/flatsheet/flatsheet/grid"
)

// Config holds the configuration for the Flatsheet server.
type Config struct {
	// Listen is the address the Flatsheet server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// DataDir is the directory holding the CSV record files.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// UsersFile is the credentials file name inside DataDir.
	UsersFile string `yaml:"users_file" mapstructure:"users_file"`
	// SheetFile is the sheet file name inside DataDir.
	SheetFile string `yaml:"sheet_file" mapstructure:"sheet_file"`
	// Session holds the cookie session configuration.
	Session *SessionConfig `yaml:"session" mapstructure:"session"`
	// Sheet holds the sheet shape configuration.
	Sheet *SheetConfig `yaml:"sheet" mapstructure:"sheet"`
	// Registration holds the registration policy configuration.
	Registration *RegistrationConfig `yaml:"registration" mapstructure:"registration"`
	// DefaultAdmin holds the admin account seeded on first start.
	DefaultAdmin *DefaultAdminConfig `yaml:"default_admin" mapstructure:"default_admin"`
}

// SessionConfig holds the cookie session configuration.
type SessionConfig struct {
	// Key is the key used to encrypt session data. If empty, a random key is
	// generated at startup and sessions won't survive a restart.
	Key string `yaml:"key" mapstructure:"key"`
	// MaxAge is the maximum age of a session in seconds.
	MaxAge int `yaml:"max_age" mapstructure:"max_age"`
}

// SheetConfig holds the sheet shape configuration.
type SheetConfig struct {
	// Shape is the structural policy for the sheet, "fixed" or "freeform".
	Shape string `yaml:"shape" mapstructure:"shape"`
}

// RegistrationConfig holds the registration policy configuration.
type RegistrationConfig struct {
	// EmployeeOpen allows anyone to register an employee account when true.
	// When false, only admins can register employees.
	EmployeeOpen bool `yaml:"employee_open" mapstructure:"employee_open"`
}

// DefaultAdminConfig holds the admin account seeded when the users file does
// not exist yet.
type DefaultAdminConfig struct {
	// Enabled indicates whether the default admin is seeded on first start.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Username is the seeded admin username.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the seeded admin password.
	Password string `yaml:"password" mapstructure:"password"`
}

// Load reads the configuration from the specified path and returns a Config.
// If path is empty, it searches the default locations for a config file and
// falls back to defaults when none is found.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("FLATSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.flatsheet")
		v.AddConfigPath("/etc/flatsheet")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	if c.Session.Key == "" {
		c.Session.Key = uuid.New().String()
		log.Warn("no session key configured, generated a random one; sessions won't survive a restart")
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3003")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("users_file", "users.csv")
	v.SetDefault("sheet_file", "sheet.csv")

	v.SetDefault("session.key", "")
	v.SetDefault("session.max_age", 172800) // 48 hours

	v.SetDefault("sheet.shape", string(grid.ShapeFixed))

	v.SetDefault("registration.employee_open", false)

	v.SetDefault("default_admin.enabled", true)
	v.SetDefault("default_admin.username", "admin")
	v.SetDefault("default_admin.password", "admin123")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.UsersFile == "" || c.SheetFile == "" {
		return fmt.Errorf("users_file and sheet_file are required")
	}

	switch grid.Shape(c.Sheet.Shape) {
	case grid.ShapeFixed, grid.ShapeFreeform:
	default:
		return fmt.Errorf("invalid sheet shape %q, must be %q or %q", c.Sheet.Shape, grid.ShapeFixed, grid.ShapeFreeform)
	}

	if c.DefaultAdmin.Enabled && (c.DefaultAdmin.Username == "" || c.DefaultAdmin.Password == "") {
		return fmt.Errorf("default admin username and password are required when the default admin is enabled")
	}

	return nil
}

// SheetShape returns the configured shape as a grid.Shape.
func (c *Config) SheetShape() grid.Shape {
	return grid.Shape(c.Sheet.Shape)
}

// UsersPath returns the location of the credentials file.
func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

// SheetPath returns the location of the sheet file.
func (c *Config) SheetPath() string {
	return filepath.Join(c.DataDir, c.SheetFile)
}
