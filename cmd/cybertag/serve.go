package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/api"
	"github.com/samcharles93/cybertag/internal/authority"
	"github.com/samcharles93/cybertag/internal/logger"
	"github.com/samcharles93/cybertag/internal/webui"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		signerName  string
		keyDir      string
		hashName    string
		profileName string
		storeLimit  int64
		noUI        bool
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the tag encode/decode/verify HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.StringFlag{
				Name:        "authority",
				Usage:       "authority key name used by POST /v1/tags/sign; signing is disabled when empty",
				Destination: &signerName,
			},
			keyDirFlag(&keyDir),
			hashFlag(&hashName),
			profileFlag(&profileName),
			&cli.Int64Flag{
				Name:        "store-limit",
				Usage:       "encoded images kept for GET /v1/tags/:id",
				Value:       1024,
				Destination: &storeLimit,
			},
			&cli.BoolFlag{
				Name:        "no-ui",
				Usage:       "do not serve the inspector page at /",
				Destination: &noUI,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := configFrom(ctx)
			if cfg.ServerAddress != "" && !c.IsSet("addr") {
				addr = cfg.ServerAddress
			}

			hasher, err := resolveHasher(cfg, hashName)
			if err != nil {
				return err
			}
			profile, _, err := resolveProfile(cfg, profileName)
			if err != nil {
				return err
			}
			keys, err := cfg.Keyring()
			if err != nil {
				return err
			}
			var signer *authority.Authority
			if signerName != "" {
				if signer, err = authority.Load(resolveKeyDir(cfg, keyDir), signerName); err != nil {
					return err
				}
			}

			server := api.NewServer(api.Config{
				Hasher:  hasher,
				Keys:    keys,
				Signer:  signer,
				Profile: profile,
				Store:   api.NewImageStore(int(storeLimit)),
				Logger:  log.WithGroup("api"),
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			if !noUI {
				mountUI(e)
			}

			log.Info("starting server",
				"address", addr,
				"hash", hasher.Name(),
				"profile", profile.Name,
				"trusted", keys.Len(),
				"signing", signer != nil,
			)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// mountUI serves the embedded inspector. The API routes are more specific
// and keep precedence over the wildcard.
func mountUI(e *echo.Echo) {
	files := webui.Handler()
	serve := func(c *echo.Context) error {
		files.ServeHTTP(c.Response(), c.Request())
		return nil
	}
	e.GET("/", serve)
	e.GET("/*", serve)
}
