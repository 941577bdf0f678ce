package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"chart-lyrics-go/internal/config"
	"chart-lyrics-go/internal/dataset"
	"chart-lyrics-go/internal/logger"
	"chart-lyrics-go/internal/lyrics"
	"chart-lyrics-go/internal/types"
)

type call struct{ title, artist string }

// scripted answers by title and records every call in order.
type scripted struct {
	answers map[string]lyrics.Outcome
	calls   []call
}

func (s *scripted) Search(_ context.Context, title, artist string) lyrics.Outcome {
	s.calls = append(s.calls, call{title, artist})
	if out, ok := s.answers[title]; ok {
		return out
	}
	return lyrics.Missing()
}

func TestEnrichScenario(t *testing.T) {
	p := &scripted{answers: map[string]lyrics.Outcome{
		"Song X": lyrics.FoundText("La la la"),
		"Song Y": lyrics.Failure(errors.New("provider exploded")),
	}}
	entries := []types.ChartEntry{
		{Artist: "Artist A", Title: "Song X"},
		{Artist: "Artist B", Title: "Song Y"},
	}

	got := Enrich(context.Background(), nil, p, entries)

	if len(got) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(got))
	}
	if got[0].Lyrics == nil || *got[0].Lyrics != "La la la" {
		t.Errorf("Expected row 0 lyrics 'La la la', got %v", got[0].Lyrics)
	}
	if got[1].Lyrics != nil {
		t.Errorf("Expected row 1 lyrics unset, got %q", *got[1].Lyrics)
	}

	wantCalls := []call{{"Song X", "Artist A"}, {"Song Y", "Artist B"}}
	if !reflect.DeepEqual(p.calls, wantCalls) {
		t.Errorf("Expected calls %v, got %v", wantCalls, p.calls)
	}
}

func TestEnrichFaultIsolation(t *testing.T) {
	p := &scripted{answers: map[string]lyrics.Outcome{
		"a": lyrics.FoundText("A"),
		"b": lyrics.Failure(errors.New("timeout")),
		"c": lyrics.Missing(),
		"d": lyrics.FoundText("D"),
		"e": lyrics.FoundText("E"),
	}}
	var entries []types.ChartEntry
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		entries = append(entries, types.ChartEntry{Artist: "x", Title: title})
	}

	got := Enrich(context.Background(), nil, p, entries)

	want := map[int]string{0: "A", 3: "D", 4: "E"}
	for i, e := range got {
		text, filled := want[i]
		if filled != e.HasLyrics() {
			t.Errorf("Row %d: expected filled=%v, got %v", i, filled, e.HasLyrics())
			continue
		}
		if filled && *e.Lyrics != text {
			t.Errorf("Row %d: expected %q, got %q", i, text, *e.Lyrics)
		}
		if e.ChartEntry != entries[i] {
			t.Errorf("Row %d: expected entry %v, got %v", i, entries[i], e.ChartEntry)
		}
	}
	if len(p.calls) != len(entries) {
		t.Errorf("Expected exactly one lookup per row, got %d", len(p.calls))
	}
}

func TestEnrichEmpty(t *testing.T) {
	p := &scripted{}
	if got := Enrich(context.Background(), nil, p, nil); len(got) != 0 {
		t.Errorf("Expected no rows, got %d", len(got))
	}
	if len(p.calls) != 0 {
		t.Errorf("Expected no provider calls, got %d", len(p.calls))
	}
}

func testConfig(dir string) config.Config {
	return config.Config{
		InputPath:    filepath.Join(dir, "in.csv"),
		OutputPath:   filepath.Join(dir, "out.csv"),
		ArtistColumn: config.DefaultArtistColumn,
		TitleColumn:  config.DefaultTitleColumn,
		LyricsColumn: config.DefaultLyricsColumn,
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t.TempDir())
	in := "Date,Rank,Artist_Name,Song\n" +
		"1960-01-04,1,Artist A,Song X\n" +
		"1960-01-11,1,Artist A,Song X\n" +
		"1960-01-11,2,Artist B,Song Y\n"
	if err := os.WriteFile(cfg.InputPath, []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &scripted{answers: map[string]lyrics.Outcome{
		"Song X": lyrics.FoundText("La la la"),
		"Song Y": lyrics.Failure(errors.New("boom")),
	}}
	if err := Run(context.Background(), nil, cfg, p); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out, err := dataset.Load(nil, cfg.OutputPath)
	if err != nil {
		t.Fatalf("Expected output to load, got %v", err)
	}
	want := &dataset.Table{
		Header: []string{"Artist_Name", "Song", "Lyrics"},
		Rows: [][]string{
			{"Artist A", "Song X", "La la la"},
			{"Artist B", "Song Y", ""},
		},
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Expected %v, got %v", want, out)
	}
	if len(p.calls) != 2 {
		t.Errorf("Expected one lookup per unique pair, got %d", len(p.calls))
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := testConfig(t.TempDir())
	p := &scripted{}

	err := Run(context.Background(), nil, cfg, p)

	var dae *dataset.DataAccessError
	if !errors.As(err, &dae) {
		t.Fatalf("Expected DataAccessError, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Errorf("Expected no provider calls, got %d", len(p.calls))
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Error("Expected no output file to be written")
	}
}

func TestRunMissingColumn(t *testing.T) {
	cfg := testConfig(t.TempDir())
	if err := os.WriteFile(cfg.InputPath, []byte("Artist,Title\nA,X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := &scripted{}

	err := Run(context.Background(), nil, cfg, p)
	if !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Errorf("Expected no provider calls, got %d", len(p.calls))
	}
}

func TestRunUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.OutputPath = filepath.Join(dir, "missing-dir", "out.csv")
	if err := os.WriteFile(cfg.InputPath, []byte("Artist_Name,Song\nA,X\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), nil, cfg, lyrics.ProviderFunc(func(context.Context, string, string) lyrics.Outcome {
		return lyrics.FoundText("text")
	}))
	var dae *dataset.DataAccessError
	if !errors.As(err, &dae) || dae.Op != "write" {
		t.Errorf("Expected write DataAccessError, got %v", err)
	}
}

// pinging records whether Ping ran and what the lookups saw before it.
type pinging struct {
	scripted
	pings       int
	callsAtPing int
	pingErr     error
}

func (p *pinging) Ping(context.Context) error {
	p.pings++
	p.callsAtPing = len(p.calls)
	return p.pingErr
}

func TestRunPingsAfterLoad(t *testing.T) {
	cfg := testConfig(t.TempDir())
	if err := os.WriteFile(cfg.InputPath, []byte("Artist_Name,Song\nArtist A,Song X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := &pinging{scripted: scripted{answers: map[string]lyrics.Outcome{"Song X": lyrics.FoundText("La la la")}}}

	if err := Run(context.Background(), nil, cfg, p); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.pings != 1 {
		t.Errorf("Expected one ping, got %d", p.pings)
	}
	if p.callsAtPing != 0 {
		t.Errorf("Expected ping before any lookup, saw %d lookups first", p.callsAtPing)
	}
}

func TestRunMissingInputSkipsPing(t *testing.T) {
	cfg := testConfig(t.TempDir())
	p := &pinging{}

	err := Run(context.Background(), nil, cfg, p)
	var dae *dataset.DataAccessError
	if !errors.As(err, &dae) {
		t.Fatalf("Expected DataAccessError, got %v", err)
	}
	if p.pings != 0 {
		t.Errorf("Expected no ping for missing input, got %d", p.pings)
	}
}

func TestRunPingFailureStopsRun(t *testing.T) {
	cfg := testConfig(t.TempDir())
	if err := os.WriteFile(cfg.InputPath, []byte("Artist_Name,Song\nArtist A,Song X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pingErr := errors.New("token rejected")
	p := &pinging{pingErr: pingErr}

	err := Run(context.Background(), nil, cfg, p)
	if !errors.Is(err, pingErr) {
		t.Errorf("Expected ping error, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Errorf("Expected no lookups, got %d", len(p.calls))
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Error("Expected no output file to be written")
	}
}

func TestRunMissingInputMakesNoGeniusRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(t.TempDir())
	cfg.GeniusToken = "tok"
	cfg.GeniusAPIURL = srv.URL
	cfg.GeniusHTTPTimeout = time.Second
	cfg.GeniusPingMaxRetry = 5 * time.Second

	start := time.Now()
	err := Run(context.Background(), nil, cfg, lyrics.NewGeniusClient(cfg, nil))

	var dae *dataset.DataAccessError
	if !errors.As(err, &dae) || dae.Op != "load" {
		t.Fatalf("Expected load DataAccessError, got %v", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("Expected no requests to Genius, got %d", n)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected immediate failure, took %s", elapsed)
	}
}

func TestRunLogsCarryRunID(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	var buf bytes.Buffer
	log := logger.NewWithOutput(&buf).WithRun()

	cfg := testConfig(t.TempDir())
	if err := os.WriteFile(cfg.InputPath, []byte("Artist_Name,Song\nArtist A,Song X\nArtist B,Song Y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := &scripted{answers: map[string]lyrics.Outcome{"Song X": lyrics.FoundText("La la la")}}

	if err := Run(context.Background(), log, cfg, p); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rows := 0
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var line map[string]interface{}
		if err := json.Unmarshal(raw, &line); err != nil {
			t.Fatalf("Expected JSON log line, got %q: %v", raw, err)
		}
		if line["run_id"] != log.RunID() {
			t.Errorf("Expected run_id %q on %q, got %v", log.RunID(), line["msg"], line["run_id"])
		}
		if _, ok := line["row"]; ok {
			rows++
		}
	}
	if rows == 0 {
		t.Error("Expected per-row log lines")
	}
}
