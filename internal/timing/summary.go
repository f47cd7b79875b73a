package timing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// notApplicable is the marker both vendors print for slack that was not
// computed, e.g. hold slack of a design without clocks.
const notApplicable = "NA"

var errNotApplicable = errors.New("slack not applicable")

// Vivado prints the numeric row six lines below "| Design Timing Summary":
// underline, rule, blank, column names, dashes, values.
const vivadoSummaryRowOffset = 6

// Vivado columns: WNS TNS TNS-failing TNS-total WHS THS THS-failing
// THS-total WPWS TPWS TPWS-failing TPWS-total.
var vivadoSlackColumns = [6]int{0, 1, 4, 5, 8, 9}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
}

// parseSlackRow reads the worst/total setup, hold and pulse-width slack
// sextuplet from a summary row. Table pipes are dropped and whitespace runs
// collapsed to single spaces before splitting; columns selects the six cells
// in that order.
func parseSlackRow(row string, columns [6]int) ([6]*apd.Decimal, error) {
	var out [6]*apd.Decimal
	row = strings.ReplaceAll(row, "|", " ")
	row = strings.TrimSpace(whitespaceRun.ReplaceAllString(row, " "))
	if row == "" {
		return out, errors.New("empty slack row")
	}
	cells := strings.Split(row, " ")
	for i, col := range columns {
		if col >= len(cells) {
			return out, fmt.Errorf("slack row has %d cells, need column %d", len(cells), col)
		}
		cell := cells[col]
		if strings.EqualFold(cell, notApplicable) || strings.EqualFold(cell, "N/A") {
			return out, errNotApplicable
		}
		d, err := ParseDecimal(cell)
		if err != nil {
			return out, err
		}
		out[i] = d
	}
	return out, nil
}

func (r *Result) setSlacks(s [6]*apd.Decimal) {
	r.WorstSetupSlack.Set(s[0])
	r.TotalSetupSlack.Set(s[1])
	r.WorstHoldSlack.Set(s[2])
	r.TotalHoldSlack.Set(s[3])
	r.WorstPulseWidthSlack.Set(s[4])
	r.TotalPulseWidthSlack.Set(s[5])
	r.TimingSummaryAvailable = true
}

func parseVivadoSummary(summary string, r *Result) {
	lines := splitLines(summary)
	for i, line := range lines {
		if !vivadoSummaryHeaderPattern.MatchString(strings.TrimRight(line, " \t")) {
			continue
		}
		rowIndex := i + vivadoSummaryRowOffset
		if rowIndex >= len(lines) {
			r.warnf("timing summary: table truncated after header")
			return
		}
		slacks, err := parseSlackRow(lines[rowIndex], vivadoSlackColumns)
		if err != nil {
			r.warnf("timing summary: %v", err)
			return
		}
		r.setSlacks(slacks)
		return
	}
}

// Quartus lists one block per corner and check:
//
//	Type  : Slow 1100mV 85C Model Setup 'clk'
//	Slack : -1.093
//	TNS   : -12.345
//
// Slack is one line below the type line and TNS two. Every corner is
// reduced to the minimum, the worst case over corners.
const (
	quartusSlackOffset = 1
	quartusTNSOffset   = 2
)

var quartusChecks = []string{"Setup", "Hold", "Minimum Pulse Width"}

func parseQuartusSummary(summary string, r *Result) {
	lines := splitLines(summary)
	start := -1
	for i, line := range lines {
		if quartusSummaryHeaderPattern.MatchString(strings.TrimSpace(line)) {
			start = i
			break
		}
	}
	if start < 0 {
		return
	}

	worst := map[string]*apd.Decimal{}
	total := map[string]*apd.Decimal{}
	for i := start + 1; i < len(lines); i++ {
		m := quartusSummaryTypePattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		check := m[2]
		slack, err := quartusSummaryValue(lines, i+quartusSlackOffset, "Slack")
		if err != nil {
			r.warnf("timing summary: %s: %v", m[1]+" "+check, err)
			return
		}
		tns, err := quartusSummaryValue(lines, i+quartusTNSOffset, "TNS")
		if err != nil {
			r.warnf("timing summary: %s: %v", m[1]+" "+check, err)
			return
		}
		worst[check] = minDecimal(worst[check], slack)
		total[check] = minDecimal(total[check], tns)
	}

	var slacks [6]*apd.Decimal
	for i, check := range quartusChecks {
		if worst[check] == nil {
			r.warnf("timing summary: no %s entry", strings.ToLower(check))
			return
		}
		slacks[2*i] = worst[check]
		slacks[2*i+1] = total[check]
	}
	r.setSlacks(slacks)
}

func quartusSummaryValue(lines []string, index int, key string) (*apd.Decimal, error) {
	if index >= len(lines) {
		return nil, fmt.Errorf("missing %s line", key)
	}
	m := quartusSummaryValuePattern.FindStringSubmatch(strings.TrimSpace(lines[index]))
	if m == nil || m[1] != key {
		return nil, fmt.Errorf("expected %s line, got %q", key, strings.TrimSpace(lines[index]))
	}
	if strings.EqualFold(m[2], notApplicable) || strings.EqualFold(m[2], "N/A") {
		return nil, errNotApplicable
	}
	return ParseDecimal(m[2])
}

func minDecimal(current, candidate *apd.Decimal) *apd.Decimal {
	if current == nil || candidate.Cmp(current) < 0 {
		return candidate
	}
	return current
}
