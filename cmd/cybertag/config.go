package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/config"
	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/internal/logger"
	"github.com/samcharles93/cybertag/pkg/tag"
)

type configKey struct{}

func defaultConfigPath() string {
	if p := os.Getenv(envConfig); p != "" {
		return p
	}
	return config.Path()
}

// setup loads the config file and installs the logger. Config values only
// apply when the matching flag was not given on the command line.
func setup(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return ctx, err
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if debug {
		logLevel = "debug"
	}

	log, err := logger.Open(c.Root().ErrWriter, logFormat, logLevel)
	if err != nil {
		return ctx, err
	}
	log.Debug("configuration loaded", "path", configFile, "trusted", len(cfg.Trusted))

	ctx = logger.WithContext(ctx, log)
	return context.WithValue(ctx, configKey{}, cfg), nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

// resolveHasher picks the --hash flag, then the config file, then the default.
func resolveHasher(cfg *config.Config, flag string) (contenthash.Hasher, error) {
	if flag != "" {
		return contenthash.ByName(flag)
	}
	return cfg.Hasher()
}

// resolveProfile picks the --profile flag, then the config file. ok is false
// when neither names a tag model.
func resolveProfile(cfg *config.Config, flag string) (tag.Profile, bool, error) {
	if flag != "" {
		p, ok := tag.ProfileByName(flag)
		if !ok {
			return tag.Profile{}, false, fmt.Errorf("unknown tag profile %q", flag)
		}
		return p, true, nil
	}
	p, ok := cfg.TagProfile()
	return p, ok, nil
}

func resolveKeyDir(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Keys()
}
