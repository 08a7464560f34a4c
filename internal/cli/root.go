package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/egmembers/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "egmembers",
	Short: "egmembers - Egyptian parliament member records scraper",
	Long: `egmembers crawls the member search of the Egyptian parliamentary records
site (egpw.org), reads every member detail page and stores one flat record
per legislator: id, name, source, area, terms, electoral districts and
chambers.

Pages are cached on disk, so repeated runs only hit the network for pages
that were never fetched.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("egmembers v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.egmembers/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := configureViper(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering config defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.egmembers")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configureViper enables EGMEMBERS_* overrides and registers every key of
// the default config. AutomaticEnv only reaches keys viper already knows.
func configureViper(v *viper.Viper) error {
	// EGMEMBERS_HTTP_USER_AGENT overrides http.user_agent
	v.SetEnvPrefix("EGMEMBERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var defaults map[string]any
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaults(v, "", defaults)
	return nil
}

func setDefaults(v *viper.Viper, prefix string, values map[string]any) {
	for key, value := range values {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			setDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, value)
	}
}

// loadConfig layers config file, environment and bound flags over the defaults
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// newLogger returns the run logger; --verbose enables debug records
func newLogger(cfg *model.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
