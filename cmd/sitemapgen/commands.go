package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/agency-site/config"
	"github.com/romangod6/agency-site/internal/content"
	"github.com/romangod6/agency-site/internal/crawler"
	"github.com/romangod6/agency-site/internal/sitemap"
	"github.com/romangod6/agency-site/internal/utils"
	"github.com/spf13/cobra"
)

func loadRegistry(cmd *cobra.Command) (*content.Registry, error) {
	path, _ := cmd.Flags().GetString("content")
	if path == "" {
		return content.Default()
	}
	return content.LoadFile(path)
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var (
		baseURL  string
		outDir   string
		filename string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write sitemap.xml for the public pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			entries := registry.Entries()
			doc := sitemap.NewGenerator(baseURL).Generate(entries)

			path, err := sitemap.ExportAsFile(doc, outDir, filename)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d urls)\n", path, sitemap.CountPublic(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", cfg.Site.BaseURL, "site origin, no trailing slash")
	cmd.Flags().StringVar(&outDir, "out-dir", cfg.Sitemap.OutputDir, "output directory")
	cmd.Flags().StringVar(&filename, "filename", cfg.Sitemap.Filename, "output file name")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the content registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			public := len(registry.Public())
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d pages, %d public, %d internal\n",
				registry.Len(), public, registry.Len()-public)
			return nil
		},
	}
}

func newAuditCmd(cfg *config.Config) *cobra.Command {
	var (
		sitemapURL     string
		userAgent      string
		parallelism    int
		allowedDomains []string
		logDir         string
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Visit every URL in a published sitemap and report broken ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := utils.NewRunLogger(logDir, "sitemap audit")
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runAudit(ctx, cmd, logger, sitemapURL, &crawler.AuditorConfig{
				UserAgent:      userAgent,
				Parallelism:    parallelism,
				AllowedDomains: allowedDomains,
				Timeout:        timeout,
			})
		},
	}

	cmd.Flags().StringVar(&sitemapURL, "sitemap-url", cfg.Site.BaseURL+"/sitemap.xml", "sitemap to audit")
	cmd.Flags().StringVar(&userAgent, "user-agent", cfg.Crawler.UserAgent, "user agent for page requests")
	cmd.Flags().IntVar(&parallelism, "parallelism", cfg.Crawler.Parallelism, "concurrent requests")
	cmd.Flags().StringSliceVar(&allowedDomains, "allowed-domain", cfg.Crawler.AllowedDomains, "only visit these hosts (repeatable; empty: any)")
	cmd.Flags().StringVar(&logDir, "log-dir", "logs", "directory for the audit log")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	return cmd
}

func runAudit(ctx context.Context, cmd *cobra.Command, logger *utils.RunLogger, sitemapURL string, cfg *crawler.AuditorConfig) error {
	logger.LogInfo("Auditing %s", sitemapURL)

	results, err := crawler.NewAuditor(cfg).AuditURL(ctx, sitemapURL)
	if err != nil {
		logger.LogError("Audit failed: %v", err)
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.OK() {
			logger.LogDebug("%d %s %q", r.StatusCode, r.URL, r.Title)
			fmt.Fprintf(out, "ok    %d %s\n", r.StatusCode, r.URL)
			continue
		}
		logger.LogError("%d %s: %s", r.StatusCode, r.URL, r.Err)
		fmt.Fprintf(out, "FAIL  %d %s %s\n", r.StatusCode, r.URL, r.Err)
	}

	broken := crawler.Broken(results)
	logger.LogInfo("Audit finished: %d urls, %d broken", len(results), len(broken))
	if len(broken) > 0 {
		return fmt.Errorf("%d of %d urls are broken", len(broken), len(results))
	}
	return nil
}
