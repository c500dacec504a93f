// Command catalog-ingest normalizes raw pressing catalog dumps into the
// single catalog JSON file the API server loads at startup.
//
// Input is one or more gzip-compressed NDJSON files (one pressing record per
// line). Dumps from different providers overlap, so records are deduplicated
// by id across all files: a bloom filter gives a cheap first-seen test and an
// exact set confirms, keeping the first occurrence of each id.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

func main() {
	var (
		dataDir string
		outFile string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.ndjson.gz catalog dumps")
	flag.StringVar(&outFile, "out", "catalog.json", "output catalog JSON file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, outFile); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, outFile string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.gz"))
	if err != nil {
		return errors.Wrap(err, "list dump files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.gz dump files in %s", dataDir)
	}
	sort.Strings(files)

	slog.Info("ingesting catalog dumps", slog.Int("files", len(files)))

	pressings, err := collectPressings(ctx, files)
	if err != nil {
		return errors.Wrap(err, "collect pressings")
	}
	if len(pressings) == 0 {
		return errors.New("no valid pressing records found")
	}

	sort.Slice(pressings, func(i, j int) bool { return pressings[i].ID < pressings[j].ID })

	slog.Info("writing catalog", slog.String("file", outFile), slog.Int("pressings", len(pressings)))
	return writeCatalog(outFile, pressings)
}

// dedup tracks already-seen pressing ids. The bloom filter short-circuits the
// common unseen case; the exact set resolves false positives.
type dedup struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	seen   map[string]struct{}
}

func newDedup() *dedup {
	return &dedup{
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		seen:   make(map[string]struct{}),
	}
}

// firstSeen records id and reports whether this was its first occurrence.
func (d *dedup) firstSeen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter.TestString(id) {
		if _, ok := d.seen[id]; ok {
			return false
		}
	}
	d.filter.AddString(id)
	d.seen[id] = struct{}{}
	return true
}

// collectPressings streams every dump file concurrently, validating and
// deduplicating records as they arrive.
func collectPressings(ctx context.Context, files []string) ([]catalog.Pressing, error) {
	var (
		mu        sync.Mutex
		pressings []catalog.Pressing
	)
	dd := newDedup()

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			var count, kept uint64
			err := streamGzFile(ctx, f, func(line []byte) {
				count++
				if count%progressEvery == 0 {
					slog.Info("progress", slog.Int("file", i+1), slog.Uint64("records", count))
				}

				p, ok := parsePressing(line)
				if !ok {
					return
				}
				if !dd.firstSeen(p.ID) {
					return
				}

				mu.Lock()
				pressings = append(pressings, p)
				mu.Unlock()
				kept++
			})
			if err != nil {
				return errors.Wrapf(err, "stream file %s", f)
			}

			slog.Info("file complete",
				slog.Int("file", i+1),
				slog.Uint64("records", count),
				slog.Uint64("kept", kept),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pressings, nil
}

// parsePressing decodes and validates one NDJSON record. Invalid records are
// skipped, not fatal: dumps are dirty by nature.
func parsePressing(line []byte) (catalog.Pressing, bool) {
	var p catalog.Pressing
	if err := json.Unmarshal(line, &p); err != nil {
		return catalog.Pressing{}, false
	}
	if p.ID == "" || p.Name == "" || !p.PricingMode.Valid() {
		return catalog.Pressing{}, false
	}
	if p.Rating < 0 || p.Rating > 5 || p.Distance < 0 {
		return catalog.Pressing{}, false
	}
	if p.PricePerKilo.IsNegative() || p.PricePerPiece.IsNegative() {
		return catalog.Pressing{}, false
	}
	return p, true
}

// streamGzFile reads a gzip-compressed file line by line, invoking fn for
// each non-empty line. It checks ctx between lines so interrupts abort
// promptly.
func streamGzFile(ctx context.Context, path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, "gzip reader")
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "scan")
	}
	return nil
}

// writeCatalog writes the catalog atomically: temp file, then rename.
func writeCatalog(path string, pressings []catalog.Pressing) error {
	data, err := json.MarshalIndent(pressings, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal catalog")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".catalog.*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write catalog")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close catalog")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "replace catalog")
	}
	return nil
}
