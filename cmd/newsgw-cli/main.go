// Package main provides the newsgw-cli command-line tool for operating newsgw.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	newsgateway "github.com/ferro-labs/news-gateway"
	"github.com/ferro-labs/news-gateway/internal/auth"
	"github.com/ferro-labs/news-gateway/internal/version"
	"github.com/ferro-labs/news-gateway/providers"
)

func main() {
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. getenv supplies environment overrides.
func newRootCmd(getenv func(string) string) *cobra.Command {
	root := &cobra.Command{
		Use:          "newsgw-cli",
		Short:        "newsgw command line tool",
		SilenceUsage: true,
	}
	root.AddCommand(
		newValidateCmd(getenv),
		newHashPasswordCmd(),
		newProbeCmd(getenv),
		newVersionCmd(),
	)
	return root
}

func newValidateCmd(getenv func(string) string) *cobra.Command {
	var noEnv bool
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a gateway configuration file (JSON/YAML)",
		Long: `Load a configuration file, check it against the config schema and run
the semantic checks the server runs at startup.

Environment overrides (NEWSAPI_KEY, NEWSAPI_URL, ...) are applied first
unless --no-env is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := newsgateway.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if !noEnv {
				newsgateway.ApplyEnv(cfg, getenv)
			}
			if err := newsgateway.ValidateConfig(*cfg); err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Config is valid")
			fmt.Fprintf(out, "  Listen:    %s\n", cfg.Server.Addr)
			fmt.Fprintf(out, "  Upstream:  %s (country=%s, language=%s)\n",
				providers.RedactURL(cfg.Upstream.URL), cfg.Upstream.Country, cfg.Upstream.Language)
			fmt.Fprintf(out, "  Cache:     %s\n", describeCache(cfg.Cache))
			user := cfg.Auth.Username
			if user == "" {
				user = auth.DefaultUsername + " (built-in)"
			}
			fmt.Fprintf(out, "  Auth user: %s\n", user)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noEnv, "no-env", false, "do not apply environment overrides")
	return cmd
}

func describeCache(c newsgateway.CacheConfig) string {
	backend := c.Backend
	if backend == "" {
		backend = newsgateway.CacheMemory
	}
	parts := []string{string(backend)}
	if c.Capacity > 0 {
		parts = append(parts, fmt.Sprintf("capacity=%d", c.Capacity))
	}
	if c.TTL > 0 {
		parts = append(parts, "ttl="+c.TTL.Std().String())
	}
	return strings.Join(parts, ", ")
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password for auth.password_hash",
		Long:  "Hash the given password, or the first line of standard input when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func newProbeCmd(getenv func(string) string) *cobra.Command {
	var (
		configPath string
		count      int
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Fetch top headlines once with the configured upstream key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := newsgateway.DefaultConfig()
			if configPath != "" {
				loaded, err := newsgateway.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = *loaded
			}
			newsgateway.ApplyEnv(&cfg, getenv)
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}

			p, err := newsgateway.NewProvider(cfg.Upstream)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			start := time.Now()
			articles, err := p.Fetch(ctx, providers.Query{PageSize: count, Country: cfg.Upstream.Country})
			if err != nil {
				return fmt.Errorf("probe failed: %w", err)
			}
			if articles == nil {
				return errors.New("probe failed: upstream returned no article list")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %s answered in %s with %d article(s)\n",
				p.Name(), time.Since(start).Round(time.Millisecond), len(articles))
			for i, a := range articles {
				fmt.Fprintf(out, "  %2d. %s\n", i+1, a.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().IntVar(&count, "count", 5, "number of headlines to fetch")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsgw-cli %s\n", version.String())
		},
	}
}
