// Command sitemapgen exports, validates and audits the site's sitemap
// without running the server.
package main

import (
	"fmt"
	"os"

	"github.com/romangod6/agency-site/config"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd takes its flag defaults from cfg so config.yaml and SITE_*
// variables apply unless a flag overrides them.
func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "sitemapgen",
		Short:         "Generate and check the agency site's sitemap",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("content", cfg.Content.File, "content registry YAML file (empty: embedded registry)")

	root.AddCommand(newExportCmd(cfg), newValidateCmd(), newAuditCmd(cfg))
	return root
}
