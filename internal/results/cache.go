package results

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/apd/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/timing"
)

// Bump when the parsing rules change so stale entries stop matching.
const cacheVersion = 1

// cachedResult is the msgpack form of timing.Result. Decimals are kept as
// their exact text.
type cachedResult struct {
	Version                     int      `msgpack:"version"`
	ClockFrequency              string   `msgpack:"clock_frequency"`
	DataPathDelay               string   `msgpack:"data_path_delay"`
	DataPathDelayAvailable      bool     `msgpack:"data_path_delay_available"`
	Requirement                 string   `msgpack:"requirement"`
	RequirementPlusDelays       string   `msgpack:"requirement_plus_delays"`
	SourceClockDelay            string   `msgpack:"source_clock_delay"`
	ExtendedSyncParametersCount int      `msgpack:"extended_sync_parameters_count"`
	Slacks                      []string `msgpack:"slacks"`
	TimingSummaryAvailable      bool     `msgpack:"timing_summary_available"`
	Warnings                    []string `msgpack:"warnings,omitempty"`
}

// Cache stores parsed results keyed by the content of the reports they were
// parsed from, so re-running the parse step over a large work directory
// only parses what changed.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// NewCache returns a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Key identifies a parse: vendor, phase and clock select the parser, report
// and summary are its input.
func Key(vendor timing.Vendor, phase timing.Phase, clockHz, report, summary string) string {
	h := sha256.New()
	for _, part := range []string{fmt.Sprint(cacheVersion), string(vendor), string(phase), clockHz, report, summary} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".msgpack")
}

// Get returns the cached result for key. ok is false on a miss or on an
// entry written by another cache version.
func (c *Cache) Get(key string) (*timing.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	var cr cachedResult
	if err := msgpack.Unmarshal(data, &cr); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if cr.Version != cacheVersion {
		return nil, false, nil
	}
	r, err := cr.result()
	if err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return r, true, nil
}

// Put stores a result under key.
func (c *Cache) Put(key string, r *timing.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := msgpack.Marshal(fromResult(r))
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

func fromResult(r *timing.Result) cachedResult {
	return cachedResult{
		Version:                     cacheVersion,
		ClockFrequency:              r.ClockFrequency.String(),
		DataPathDelay:               r.DataPathDelay.String(),
		DataPathDelayAvailable:      r.DataPathDelayAvailable,
		Requirement:                 r.Requirement.String(),
		RequirementPlusDelays:       r.RequirementPlusDelays.String(),
		SourceClockDelay:            r.SourceClockDelay.String(),
		ExtendedSyncParametersCount: r.ExtendedSyncParametersCount,
		Slacks: []string{
			r.WorstSetupSlack.String(), r.TotalSetupSlack.String(),
			r.WorstHoldSlack.String(), r.TotalHoldSlack.String(),
			r.WorstPulseWidthSlack.String(), r.TotalPulseWidthSlack.String(),
		},
		TimingSummaryAvailable: r.TimingSummaryAvailable,
		Warnings:               r.Warnings,
	}
}

func (cr cachedResult) result() (*timing.Result, error) {
	if len(cr.Slacks) != 6 {
		return nil, fmt.Errorf("expected 6 slacks, got %d", len(cr.Slacks))
	}
	r := &timing.Result{
		DataPathDelayAvailable:      cr.DataPathDelayAvailable,
		ExtendedSyncParametersCount: cr.ExtendedSyncParametersCount,
		TimingSummaryAvailable:      cr.TimingSummaryAvailable,
		Warnings:                    cr.Warnings,
	}
	targets := []struct {
		text string
		dst  *apd.Decimal
	}{
		{cr.ClockFrequency, &r.ClockFrequency},
		{cr.DataPathDelay, &r.DataPathDelay},
		{cr.Requirement, &r.Requirement},
		{cr.RequirementPlusDelays, &r.RequirementPlusDelays},
		{cr.SourceClockDelay, &r.SourceClockDelay},
		{cr.Slacks[0], &r.WorstSetupSlack},
		{cr.Slacks[1], &r.TotalSetupSlack},
		{cr.Slacks[2], &r.WorstHoldSlack},
		{cr.Slacks[3], &r.TotalHoldSlack},
		{cr.Slacks[4], &r.WorstPulseWidthSlack},
		{cr.Slacks[5], &r.TotalPulseWidthSlack},
	}
	for _, t := range targets {
		d, err := timing.ParseDecimal(t.text)
		if err != nil {
			return nil, err
		}
		t.dst.Set(d)
	}
	return r, nil
}
