package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/internal/store"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// openGateway builds the store chain described by the configuration: the
// model file, optionally behind postgres, optionally fronted by redis. The
// returned func releases connections.
func openGateway(ctx context.Context, logger *zap.Logger, conf *config.Configuration) (store.Gateway, func(), error) {
	encrypted, err := store.EncryptedFile(conf.Store.File.Path)
	if err != nil {
		return nil, nil, err
	}
	passphrase, err := modelPassphrase(conf.Store.File.Encrypt || encrypted)
	if err != nil {
		return nil, nil, err
	}

	file := store.NewFileStore(logger, conf.Store.File.Path, passphrase)
	if err := file.Verify(ctx); err != nil {
		return nil, nil, err
	}
	var gateway store.Gateway = file
	var closers []func()

	if conf.Store.Backend == config.BackendPostgres && conf.Store.Postgres.URL != "" {
		pg, err := store.Connect(ctx, logger, store.PostgresOptions{
			URL:         conf.Store.Postgres.URL,
			FallbackURL: conf.Store.Postgres.FallbackURL,
			ModelName:   conf.Store.Postgres.ModelName,
			Retry:       conf.RetryPolicy(),
		})
		if err != nil {
			logger.Warn("database unavailable, using the model file",
				zap.String("op", "main.openGateway"),
				zap.String("path", file.Path()),
				zap.Error(err),
			)
		} else {
			closers = append(closers, pg.Close)
			gateway = store.NewFallbackGateway(logger, pg, file)
		}
	}

	if conf.Store.Redis.Addr != "" {
		cache := store.NewRedisCache(conf.Store.Redis.Addr)
		closers = append(closers, func() { _ = cache.Close() })
		gateway = store.NewCachedGateway(logger, gateway, cache, conf.Store.Redis.Key, conf.Store.Redis.TTL)
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return gateway, closeAll, nil
}

// modelPassphrase returns the passphrase of an encrypted model file from the
// environment, or prompts for it on a terminal.
func modelPassphrase(encrypted bool) (string, error) {
	if !encrypted {
		return "", nil
	}
	if p := os.Getenv(constants.PassphraseEnv); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("model file is encrypted: set %s", constants.PassphraseEnv)
	}
	fmt.Fprint(os.Stderr, "Model passphrase: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	passphrase := strings.TrimSpace(string(raw))
	if passphrase == "" {
		return "", errors.New("empty passphrase")
	}
	return passphrase, nil
}
