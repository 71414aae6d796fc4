package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the explicit configuration value handed to the solver and the
// orchestrator constructors. Soft-constraint weights are not here: they
// travel inside every constraint package.
type Config struct {
	Env string `validate:"oneof=development production"`

	Log          LogConfig
	Solver       SolverConfig
	Orchestrator OrchestratorConfig
}

type LogConfig struct {
	Level  string
	Format string `validate:"oneof=json console"`
}

type SolverConfig struct {
	Backend       string        `validate:"oneof=gophersat kissat"`
	KissatPath    string        `validate:"required_if=Backend kissat"`
	TimeBudget    time.Duration `validate:"gt=0"`
	MaxCandidates int           `validate:"gt=0"`
}

type OrchestratorConfig struct {
	MaxRetries int `validate:"gte=0"` // Attempts per stage minus one
}

var validate = validator.New()

// Load reads the configuration from the environment, falling back to a .env
// file in the working directory and then to defaults.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is not an error.
func LoadFile(file string) (*Config, error) {
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load %v: %w", file, err)
	}

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		Backend:       strings.ToLower(v.GetString("SAT_BACKEND")),
		KissatPath:    v.GetString("KISSAT_PATH"),
		TimeBudget:    seconds(v.GetFloat64("SOLVER_TIME_BUDGET_SECONDS")),
		MaxCandidates: v.GetInt("MAX_CANDIDATES"),
	}

	cfg.Orchestrator = OrchestratorConfig{
		MaxRetries: v.GetInt("MAX_RETRIES"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SAT_BACKEND", "gophersat")
	v.SetDefault("KISSAT_PATH", "kissat")
	v.SetDefault("SOLVER_TIME_BUDGET_SECONDS", 5)
	v.SetDefault("MAX_CANDIDATES", 6)

	v.SetDefault("MAX_RETRIES", 2)
}

func seconds(raw float64) time.Duration {
	return time.Duration(raw * float64(time.Second))
}
