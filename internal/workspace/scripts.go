package workspace

import (
	"text/template"
)

// Per-test Vivado flow. Runs from inside the test directory.
var vivadoTestTemplate = template.Must(template.New("vivado").Parse(`# {{.Name}}
read_vhdl -vhdl2008 {{.VHDLFile}}
{{- if .ConstraintsFile}}
read_xdc {{.ConstraintsFile}}
{{- end}}
synth_design -top tf_sample -part {{.Part}} -mode out_of_context
{{- if .Synthesis}}
report_timing -delay_type max -max_paths 1 -file {{.SynthReport}}
report_timing_summary -file {{.SynthSummary}}
{{- end}}
{{- if .Implementation}}
opt_design
place_design
route_design
report_timing -delay_type max -max_paths 1 -file {{.ImplReport}}
report_timing_summary -file {{.ImplSummary}}
{{- end}}
close_design
`))

// Per-test Quartus flow, run by quartus_sh -t from inside the test directory.
var quartusTestTemplate = template.Must(template.New("quartus").Parse(`# {{.Name}}
load_package flow
project_new tf_sample -overwrite
set_global_assignment -name DEVICE {{.Part}}
set_global_assignment -name TOP_LEVEL_ENTITY tf_sample
set_global_assignment -name VHDL_INPUT_VERSION VHDL_2008
set_global_assignment -name VHDL_FILE {{.VHDLFile}}
{{- if .ConstraintsFile}}
set_global_assignment -name SDC_FILE {{.ConstraintsFile}}
{{- end}}
execute_flow -compile
project_close
set sta [open StaReport.tcl w]
puts $sta "project_open tf_sample"
puts $sta "create_timing_netlist"
puts $sta "read_sdc"
puts $sta "update_timing_netlist"
puts $sta "report_timing -setup -npaths 1 -detail full_path -file {{.ImplReport}}"
puts $sta "delete_timing_netlist"
puts $sta "project_close"
close $sta
exec quartus_sta -t StaReport.tcl
file copy -force output_files/tf_sample.sta.summary {{.ImplSummary}}
`))

// Per-job driver: visits every test directory of the slice in order. A
// failing test is logged and the slice carries on.
var batchTemplate = template.Must(template.New("batch").Parse(`# job {{.Index}}: {{len .Tests}} tests
set root [pwd]
foreach dir { {{- range .Tests}}
    "{{.}}"
{{- end}}
} {
    cd [file join $root $dir]
    if {[catch {source {{.TestScript}}} msg]} {
        puts "FAILED $dir: $msg"
    }
    cd $root
}
`))

type testScriptData struct {
	Name            string
	Part            string
	VHDLFile        string
	ConstraintsFile string
	Synthesis       bool
	Implementation  bool
	SynthReport     string
	SynthSummary    string
	ImplReport      string
	ImplSummary     string
}

type batchScriptData struct {
	Index      int
	Tests      []string
	TestScript string
}
