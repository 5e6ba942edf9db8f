package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-scorecard/internal/analyzer"
	"github.com/spigell/resume-scorecard/internal/presentation"
	"github.com/spigell/resume-scorecard/internal/upload"
)

const (
	app       = "resume-scorecard"
	envPrefix = "SCORECARD"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Animation AnimationConfig `mapstructure:"animation"`
	Upload    UploadConfig    `mapstructure:"upload"`
}

type ServiceConfig struct {
	URL       string        `mapstructure:"url" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	TokenFile string        `mapstructure:"token-file"`
	Token     string        `mapstructure:"token"`
	UserAgent string        `mapstructure:"user-agent"`
}

type AnimationConfig struct {
	Duration       time.Duration `mapstructure:"duration" validate:"gt=0"`
	Steps          int           `mapstructure:"steps" validate:"gte=1,lte=1000"`
	BreakdownDelay time.Duration `mapstructure:"breakdown-delay" validate:"gt=0"`
}

type UploadConfig struct {
	MaxSize int64 `mapstructure:"max-size" validate:"gt=0"`
}

// Timing converts the animation settings for the presenter.
func (c AnimationConfig) Timing() presentation.Timing {
	return presentation.Timing{
		Duration:       c.Duration,
		Steps:          c.Steps,
		BreakdownDelay: c.BreakdownDelay,
	}
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-scorecard submits a resume and a job description for ATS analysis and renders the scorecard",
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	if err := bindEnv(viper.GetViper()); err != nil {
		log.Fatalf("binding environment variables: %v", err)
	}
	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-scorecard.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.url", analyzer.DefaultURL)
	v.SetDefault("service.timeout", analyzer.DefaultTimeout)
	v.SetDefault("service.token-file", "")
	v.SetDefault("service.token", "")
	v.SetDefault("service.user-agent", "")

	timing := presentation.DefaultTiming()
	v.SetDefault("animation.duration", timing.Duration)
	v.SetDefault("animation.steps", timing.Steps)
	v.SetDefault("animation.breakdown-delay", timing.BreakdownDelay)

	v.SetDefault("upload.max-size", upload.DefaultMaxSize)
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("service.url", envPrefix+"_SERVICE_URL", "ATS_SERVICE_URL"); err != nil {
		return fmt.Errorf("binding ATS_SERVICE_URL: %w", err)
	}
	if err := v.BindEnv("service.token-file", envPrefix+"_SERVICE_TOKEN_FILE", "ATS_TOKEN_FILE"); err != nil {
		return fmt.Errorf("binding ATS_TOKEN_FILE: %w", err)
	}
	return nil
}

func initConfig() {
	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

// readConfig reads file when given. Otherwise resume-scorecard.yaml in the current directory is
// used if it exists.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %q: %w", file, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
