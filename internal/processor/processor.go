package processor

import (
	"context"
	"time"

	"chart-lyrics-go/internal/logger"
	"chart-lyrics-go/internal/lyrics"
	"chart-lyrics-go/internal/types"
)

// Enrich looks up lyrics for every entry, one at a time and in order. Only a
// Found outcome fills a row; everything else leaves its Lyrics unset and the
// loop moves on.
func Enrich(ctx context.Context, l *logger.Logger, p lyrics.Provider, entries []types.ChartEntry) []types.EnrichedEntry {
	log := logger.Or(l).WithComponent("processor.enrich")
	out := types.Unenriched(entries)

	for ind := range out {
		rowLog := log.WithField("row", ind)
		rowLog.Info("looking up lyrics")

		start := time.Now()
		res := p.Search(ctx, out[ind].Title, out[ind].Artist)
		if res.Kind != lyrics.Found {
			rowLog.WithField("outcome", res.Kind.String()).WithField("detail", res.Err).Debug("lookup detail")
			rowLog.Warn("lyrics lookup failed")
			continue
		}

		text := res.Text
		out[ind].Lyrics = &text
		elapsed := time.Since(start)
		rowLog.WithField("duration_ms", elapsed.Milliseconds()).Infof("process time: %.3f seconds", elapsed.Seconds())
	}
	return out
}
