package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeVivado reads the test directories out of a job script and drops a
// synthesis timing report into each of them.
const fakeVivado = `#!/bin/sh
script="$1"
grep '^    "' "$script" | tr -d ' "' | while read -r dir; do
  cat > "$dir/SynthTimingReport.txt" <<'REPORT'
  Data Path Delay:        2.500ns  (logic 1.000ns (40.000%)  route 1.500ns (60.000%))
REPORT
done
`

func TestVhdlTimingE2E_RunWithStubTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tool stub is a shell script")
	}
	repoRoot := findRepoRoot(t)
	bin := buildTimingBinary(t, repoRoot)

	dir := t.TempDir()
	tool := filepath.Join(dir, "fake_vivado")
	if err := os.WriteFile(tool, []byte(fakeVivado), 0o755); err != nil {
		t.Fatalf("write tool stub: %v", err)
	}
	cfgPath := filepath.Join(dir, "vhdl_timing.toml")
	cfg := `vendor = "vivado"
part = "xc7a100tcsg324-1"
clock_frequency_mhz = "100"
widths = [8, 16]
families = ["unsigned"]
fixtures = ["combinational"]
operators = ["add", "xor"]
implementation = false
parallel_jobs = 2
work_dir = "` + filepath.Join(dir, "work") + `"
tool_command = ["` + tool + `", "{script}"]
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	home := t.TempDir()
	env := append(os.Environ(), "HOME="+home, "XDG_CONFIG_HOME="+filepath.Join(home, ".config"))

	stdout := runTiming(t, bin, env, "run", "--config", cfgPath, "--color", "off", "--output", "-")
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 rows, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[0], "op\tinType\toutType\ttemplate\tphase") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want := "add\tunsigned8\tunsigned8\tcombinational\tsynthesis\t2.500\t\t400.000\tfalse"
	found := false
	for _, line := range lines[1:] {
		if line == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing row %q in:\n%s", want, stdout)
	}

	// A second parse is served from the cache and writes the same table.
	again := runTiming(t, bin, env, "parse", "--config", cfgPath, "--color", "off", "--output", "-")
	if again != stdout {
		t.Fatalf("cached parse differs:\n%s\nvs\n%s", again, stdout)
	}
}

func runTiming(t *testing.T, bin string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("vhdl-timing %v failed: %v\nstderr:\n%s", args, err, stderr.String())
	}
	return stdout.String()
}

func buildTimingBinary(t *testing.T, repoRoot string) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "vhdl-timing")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/vhdl-timing")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build vhdl-timing failed: %v\n%s", err, string(out))
	}
	return binPath
}

func findRepoRoot(t *testing.T) string {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("repo root not found from %s", start)
		}
		dir = parent
	}
}
