package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/nao1215/gdorking/internal/config"
	"github.com/nao1215/gdorking/internal/fetch"
	"github.com/nao1215/gdorking/internal/ghdb"
	"github.com/nao1215/gdorking/internal/log"
	"github.com/nao1215/gdorking/internal/retry"
	"github.com/nao1215/gdorking/internal/tor"
	"github.com/spf13/cobra"
)

// session holds everything a command needs to talk to the catalog.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	client *ghdb.Client
	tor    *tor.EmbeddedTor
}

// buildConfig merges defaults, the config file and the persistent flags.
// A flag only overrides the file when it was set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicit path must exist; the implicit lookup may find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(f)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if cfg.Debug, err = flags.GetBool("debug"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// signalContext returns the command context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newSession builds the logger and the transport, starting the embedded
// Tor daemon or checking the proxy as configured.
func newSession(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*session, error) {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Debug)
	slog.SetDefault(logger)

	s := &session{cfg: cfg, logger: logger}

	proxyAddress := cfg.ProxyAddress
	if cfg.UseTor {
		addr, err := s.startTor(ctx, cmd)
		if err != nil {
			return nil, err
		}
		proxyAddress = addr
	}

	if proxyAddress != "" {
		if err := checkProxy(ctx, proxyAddress, cfg.Origin); err != nil {
			s.close()
			return nil, err
		}
		logger.Debug("proxy check passed", "proxy", proxyAddress)
	}

	fetcher, err := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithProxy(proxyAddress),
		fetch.WithRequestInterval(cfg.RequestInterval),
		fetch.WithLogger(logger),
	)
	if err != nil {
		s.close()
		return nil, err
	}

	retrier := retry.NewRetrier(retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		BaseDelay:     cfg.BaseDelay,
		BackoffFactor: cfg.BackoffFactor,
	}, fetch.IsRetryable, logger)

	s.client = ghdb.NewClient(fetcher,
		ghdb.WithOrigin(cfg.Origin),
		ghdb.WithPageSize(cfg.PageSize),
		ghdb.WithRetrier(retrier),
		ghdb.WithLogger(logger),
	)
	return s, nil
}

// startTor launches the embedded daemon and returns its SOCKS5 address.
func (s *session) startTor(ctx context.Context, cmd *cobra.Command) (string, error) {
	color.New(color.FgCyan).Fprint(cmd.ErrOrStderr(), //nolint:errcheck // status output
		"Starting embedded Tor daemon...\nThis may take 1-3 minutes while Tor bootstraps.\n")

	s.tor = tor.NewEmbeddedTor(tor.WithStartupTimeout(s.cfg.TorStartupTimeout))
	if err := s.tor.Start(ctx); err != nil {
		return "", fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	addr, err := s.tor.SocksAddr()
	if err != nil {
		s.close()
		return "", err
	}
	s.logger.Info("embedded Tor daemon started", "socksAddr", addr)
	return addr, nil
}

// close stops the embedded Tor daemon, if any.
func (s *session) close() {
	if s.tor == nil {
		return
	}
	if err := s.tor.Stop(); err != nil {
		s.logger.Warn("failed to stop embedded Tor", "error", err)
	}
	s.tor = nil
}

// checkProxy validates address and performs a SOCKS5 handshake that
// connects to the origin's host.
func checkProxy(ctx context.Context, address, origin string) error {
	if err := tor.ValidateProxyAddress(address); err != nil {
		return fmt.Errorf("%s: %w", address, err)
	}
	target, err := originTarget(origin)
	if err != nil {
		return err
	}
	if status := tor.CheckProxy(ctx, address, target); status != tor.ProxyStatusOK {
		return fmt.Errorf("proxy check failed for %s: %w", address, status.Err())
	}
	return nil
}

// originTarget returns host:port of origin, defaulting the port by scheme.
func originTarget(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", errors.New("origin has no host: " + origin)
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
