package lyrics

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MatchThreshold is the minimum average title/artist similarity for a
// search hit to count as the requested song.
const MatchThreshold = 0.85

// bestHit picks the song hit closest to (title, artist).
func bestHit(hits []searchHit, title, artist string) (songResult, bool) {
	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false

	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)

	var (
		best      songResult
		bestScore float64
		found     bool
	)
	for _, h := range hits {
		if h.Type != "song" {
			continue
		}
		score := strutil.Similarity(title, strings.TrimSpace(h.Result.Title), jw)
		if artist != "" {
			score = (score + strutil.Similarity(artist, strings.TrimSpace(h.Result.PrimaryArtist.Name), jw)) / 2
		}
		if score >= MatchThreshold && score > bestScore {
			best, bestScore, found = h.Result, score, true
		}
	}
	return best, found
}
