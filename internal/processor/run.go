package processor

import (
	"context"
	"fmt"

	"chart-lyrics-go/internal/config"
	"chart-lyrics-go/internal/dataset"
	"chart-lyrics-go/internal/logger"
	"chart-lyrics-go/internal/lyrics"
)

// Run loads cfg.InputPath, deduplicates it, enriches each row through p and
// writes cfg.OutputPath. Nothing reaches p until the input has loaded and
// projected cleanly; if p is a lyrics.Pinger it is pinged at that point.
// Only load, projection, ping and write errors are returned.
func Run(ctx context.Context, l *logger.Logger, cfg config.Config, p lyrics.Provider) error {
	l = logger.Or(l)
	log := l.WithComponent("processor.run")

	tbl, err := dataset.Load(l, cfg.InputPath)
	if err != nil {
		return err
	}

	unique, err := dataset.Deduplicate(tbl, cfg.ArtistColumn, cfg.TitleColumn)
	if err != nil {
		return err
	}
	log.WithField("input_rows", tbl.Len()).WithField("unique_rows", unique.Len()).Info("deduplicated chart entries")

	if pinger, ok := p.(lyrics.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("lyrics provider unavailable: %w", err)
		}
	}

	enriched := Enrich(ctx, l, p, dataset.Entries(unique))

	header := []string{cfg.ArtistColumn, cfg.TitleColumn, cfg.LyricsColumn}
	return dataset.Write(l, cfg.OutputPath, header, enriched)
}
