package types

// ChartEntry is one (artist, song title) record from a chart dataset.
type ChartEntry struct {
	Artist string `json:"artist_name"`
	Title  string `json:"song_title"`
}

// EnrichedEntry is a ChartEntry plus its lyrics. A nil Lyrics means the
// lookup did not succeed.
type EnrichedEntry struct {
	ChartEntry
	Lyrics *string `json:"lyrics,omitempty"`
}

// HasLyrics reports whether a lookup filled the row.
func (e EnrichedEntry) HasLyrics() bool {
	return e.Lyrics != nil
}

// Unenriched wraps each entry with lyrics unset, preserving order.
func Unenriched(entries []ChartEntry) []EnrichedEntry {
	out := make([]EnrichedEntry, len(entries))
	for i, e := range entries {
		out[i] = EnrichedEntry{ChartEntry: e}
	}
	return out
}
