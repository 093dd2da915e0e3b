package main

import "github.com/urfave/cli/v3"

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
)

func globalFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Value:       defaultConfigPath(),
			Destination: &configFile,
		},
	}, loggingFlags()...)
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func profileFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "profile",
		Aliases:     []string{"p"},
		Usage:       "tag model to size for (ntag213, ntag215, ntag216)",
		Destination: dest,
	}
}

func hashFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "hash",
		Usage:       "content hash for signatures (sha256, sha3-256, blake3)",
		Destination: dest,
	}
}

func outFlag(dest *string, usage string) cli.Flag {
	return &cli.StringFlag{
		Name:        "out",
		Aliases:     []string{"o"},
		Usage:       usage,
		Destination: dest,
	}
}

func keyDirFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "key-dir",
		Usage:       "directory holding authority key pairs",
		Sources:     cli.EnvVars(envKeyDir),
		Destination: dest,
	}
}
