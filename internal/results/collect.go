package results

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/sirupsen/logrus"

	"github.com/robert-at-pretension-io/vhdl-timing/internal/suite"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/timing"
	"github.com/robert-at-pretension-io/vhdl-timing/internal/workspace"
)

// CollectStats counts what a collection pass did.
type CollectStats struct {
	Parsed    int
	CacheHits int
	Missing   int
}

// Collector reads the reports of every test in a workspace and turns them
// into result rows.
type Collector struct {
	Workspace *workspace.Workspace
	ClockHz   *apd.Decimal
	// Cache is optional.
	Cache *Cache
	Log   *logrus.Logger

	Stats CollectStats
}

// Phases parses every phase the workspace ran for one test. Phases whose
// reports are missing are left out of the map.
func (c *Collector) Phases(tc suite.TestCase) (map[timing.Phase]*timing.Result, error) {
	byPhase := make(map[timing.Phase]*timing.Result, len(c.Workspace.Phases))
	for _, phase := range c.Workspace.Phases {
		log := c.Log.WithFields(logrus.Fields{"test": tc.Name(), "phase": phase})

		report, summary, err := c.Workspace.ReadReports(tc, phase)
		if errors.Is(err, workspace.ErrReportMissing) {
			c.Stats.Missing++
			log.Warn("no timing report")
			continue
		}
		if err != nil {
			return nil, err
		}

		r, err := c.parse(phase, report, summary)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", tc.Name(), phase, err)
		}
		for _, w := range r.Warnings {
			log.Warn(w)
		}
		if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
			for _, line := range r.Lines() {
				log.Debug(line)
			}
		}
		byPhase[phase] = r
	}
	return byPhase, nil
}

func (c *Collector) parse(phase timing.Phase, report, summary string) (*timing.Result, error) {
	var key string
	if c.Cache != nil {
		key = Key(c.Workspace.Vendor, phase, c.ClockHz.String(), report, summary)
		r, ok, err := c.Cache.Get(key)
		if err != nil {
			c.Log.WithError(err).Warn("ignoring unreadable cache entry")
		} else if ok {
			c.Stats.CacheHits++
			return r, nil
		}
	}

	p, err := timing.NewParser(c.Workspace.Vendor, phase, c.ClockHz)
	if err != nil {
		return nil, err
	}
	r, err := p.Parse(report, summary)
	if err != nil {
		return nil, err
	}
	c.Stats.Parsed++

	if c.Cache != nil {
		if err := c.Cache.Put(key, r); err != nil {
			c.Log.WithError(err).Warn("cache write failed")
		}
	}
	return r, nil
}

// Rows collects one row per test, in test order.
func (c *Collector) Rows(tests []suite.TestCase) ([]Row, error) {
	rows := make([]Row, 0, len(tests))
	for _, tc := range tests {
		byPhase, err := c.Phases(tc)
		if err != nil {
			return nil, err
		}
		row := BuildRow(tc, byPhase)
		if row.Phase == "" {
			c.Log.WithField("test", tc.Name()).Warn("no phase produced a data path delay")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
