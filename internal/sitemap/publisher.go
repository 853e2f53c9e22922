package sitemap

import (
	"context"
	"fmt"
	"time"

	"github.com/romangod6/agency-site/internal/metrics"
	"github.com/romangod6/agency-site/internal/models"
	"go.uber.org/zap"
)

// EntrySource supplies the current registry entries.
type EntrySource interface {
	Entries() []models.SitemapEntry
}

// ExportRecorder keeps a history of exported documents.
type ExportRecorder interface {
	RecordExport(ctx context.Context, export *models.SitemapExport) error
}

// Publisher periodically regenerates the sitemap and writes it to the
// public output directory.
type Publisher struct {
	source    EntrySource
	generator *Generator
	recorder  ExportRecorder
	metrics   *metrics.Metrics
	logger    *zap.Logger

	OutputDir string
	Filename  string
}

func NewPublisher(source EntrySource, generator *Generator, recorder ExportRecorder, m *metrics.Metrics, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		source:    source,
		generator: generator,
		recorder:  recorder,
		metrics:   m,
		logger:    logger,
		OutputDir: "public",
		Filename:  DefaultFilename,
	}
}

// Publish writes one fresh document and records the export.
func (p *Publisher) Publish(ctx context.Context) (*models.SitemapExport, error) {
	entries := p.source.Entries()
	doc := p.generator.Generate(entries)

	path, err := ExportAsFile(doc, p.OutputDir, p.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to publish sitemap: %w", err)
	}

	export := models.NewSitemapExport("publisher", p.Filename, p.generator.BaseURL, CountPublic(entries), len(doc))
	if p.recorder != nil {
		if err := p.recorder.RecordExport(ctx, export); err != nil {
			// The file is already in place; a missing history row is not fatal.
			p.logger.Warn("Failed to record sitemap export", zap.Error(err))
		}
	}
	p.metrics.ExportRecorded(export.Trigger)

	p.logger.Info("Published sitemap",
		zap.String("path", path),
		zap.Int("urls", export.URLCount),
		zap.Int("bytes", export.Bytes))
	return export, nil
}

// Run publishes immediately and then on every tick until ctx is done.
func (p *Publisher) Run(ctx context.Context, interval time.Duration) error {
	if _, err := p.Publish(ctx); err != nil {
		p.logger.Error("Sitemap publish failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.logger.Debug("Starting periodic sitemap publish")
			if _, err := p.Publish(ctx); err != nil {
				p.logger.Error("Sitemap publish failed", zap.Error(err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
