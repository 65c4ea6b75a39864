package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/config"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/adapters/local"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/adapters/redis"
	"github.com/aretw0/canopy/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Canopy is a terminal client for headless CMS content",
	Long: `Canopy fetches block-composed pages and paginated articles from a
Strapi-style CMS and renders them in the terminal.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to canopy.yaml (optional)")
	rootCmd.PersistentFlags().String("base-url", "", "CMS base URL (overrides config)")
	rootCmd.PersistentFlags().String("token", "", "CMS API token (overrides config)")
	rootCmd.PersistentFlags().String("local", "", "Serve content from a local markdown directory instead of a CMS")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig merges the config file with flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.Token = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func buildCache(cfg config.Config) ports.CacheStore {
	if cfg.Cache.Backend == "redis" {
		var opts []redis.Option
		if ttl := cfg.Cache.Redis.TTL.Std(); ttl > 0 {
			opts = append(opts, redis.WithTTL(ttl))
		}
		return redis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, opts...)
	}
	return memory.NewCache()
}

// buildClient wires a canopy client from the config file and flags.
func buildClient(cmd *cobra.Command) (*canopy.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	opts := []canopy.Option{
		canopy.WithLogger(logger),
		canopy.WithCache(buildCache(cfg)),
		canopy.WithHTTPClient(&http.Client{Timeout: cfg.Timeout.Std()}),
		canopy.WithRetries(cfg.Retries),
		canopy.WithPageSize(cfg.PageSize),
	}
	if cfg.Token != "" {
		opts = append(opts, canopy.WithToken(cfg.Token))
	}

	if dir, _ := cmd.Flags().GetString("local"); dir != "" {
		source, err := local.New(dir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, canopy.WithSource(source))
	}

	return canopy.New(cfg.BaseURL, opts...)
}
