package timing

import "regexp"

// Decimal as printed by both toolchains.
const number = `(-?[0-9]+(?:\.[0-9]+)?|-?\.[0-9]+)`

var (
	// Vivado report_timing:
	//   Data Path Delay:        1.826ns  (logic 0.842ns (46.112%)  route 0.984ns (53.888%))
	vivadoDataPathDelayPattern = regexp.MustCompile(`(?m)^\s*Data Path Delay:\s*` + number + `ns`)

	// Vivado: Requirement:            2.500ns  (clk rise@2.500ns - clk rise@0.000ns)
	vivadoRequirementPattern = regexp.MustCompile(`(?m)^\s*Requirement:\s*` + number + `ns`)

	// Vivado: Source Clock Delay      (SCD):    2.140ns
	vivadoSourceClockDelayPattern = regexp.MustCompile(`(?m)^\s*Source Clock Delay\s*\(SCD\):\s*` + number + `ns`)

	// Vivado:                  required time                          7.174
	vivadoRequiredTimePattern = regexp.MustCompile(`(?m)^\s*required time\s+` + number + `\s*$`)

	// Vivado report_timing_summary table header.
	vivadoSummaryHeaderPattern = regexp.MustCompile(`^\|\s*Design Timing Summary\s*$`)

	// Quartus report_timing statistics panel: ; Data Delay ; 2.640 ;
	quartusDataDelayPattern = regexp.MustCompile(`(?m)^;\s*Data Delay\s*;\s*` + number + `\s*;`)

	// Quartus: ; Setup Relationship ; 10.000 ;
	quartusSetupRelationshipPattern = regexp.MustCompile(`(?m)^;\s*Setup Relationship\s*;\s*` + number + `\s*;`)

	// Quartus path summary: ; Data Required Time ; 12.857 ;
	quartusDataRequiredTimePattern = regexp.MustCompile(`(?m)^;\s*Data Required Time\s*;\s*` + number + `\s*;`)

	// Quartus data arrival path, first "clock path" row is the launch clock:
	//   ; 2.972   ; 2.972   ;    ;      ;        ;          ; clock path ;
	quartusClockPathPattern = regexp.MustCompile(`(?m)^;\s*` + number + `\s*;\s*-?[0-9.]+\s*;[^;\n]*;[^;\n]*;[^;\n]*;[^;\n]*;\s*clock path\s*;`)

	// Quartus .sta.summary header, both TimeQuest and Timing Analyzer spellings.
	quartusSummaryHeaderPattern = regexp.MustCompile(`^(?:TimeQuest )?Timing Analyzer Summary\s*$`)

	// Quartus: Type  : Slow 1100mV 85C Model Setup 'clk'
	quartusSummaryTypePattern = regexp.MustCompile(`^Type\s*:\s*(.*?)\s*(Setup|Hold|Minimum Pulse Width)\s+'[^']*'\s*$`)

	// Quartus: Slack : -1.093 / TNS   : -12.345
	quartusSummaryValuePattern = regexp.MustCompile(`^(Slack|TNS)\s*:\s*(\S+)\s*$`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

var vivadoPatterns = &vendorPatterns{
	dataPathDelay:         vivadoDataPathDelayPattern,
	requirement:           vivadoRequirementPattern,
	requirementPlusDelays: vivadoRequiredTimePattern,
	sourceClockDelay:      vivadoSourceClockDelayPattern,
	summary:               parseVivadoSummary,
}

var quartusPatterns = &vendorPatterns{
	dataPathDelay:         quartusDataDelayPattern,
	requirement:           quartusSetupRelationshipPattern,
	requirementPlusDelays: quartusDataRequiredTimePattern,
	sourceClockDelay:      quartusClockPathPattern,
	summary:               parseQuartusSummary,
}
