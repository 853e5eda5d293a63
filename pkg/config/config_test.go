package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/enc3-recover/pkg/enc3"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Delta(enc3.DefaultDelta), cfg.PreferredDelta)
	assert.Equal(t, enc3.DefaultCandidates, cfg.Candidates())
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.ReportInterval)
	assert.True(t, cfg.Replace.RestoreOnFailure)
	assert.Equal(t, ".backup", cfg.Replace.Suffix)
	assert.Equal(t, [][]string{{"game_bot", "default_config"}}, cfg.Discovery.Exclude)
}

func TestDefault_CandidatesAreCopied(t *testing.T) {
	cfg := Default()
	cfg.CandidateDeltas[0] = 0
	assert.NotEqual(t, uint32(0), enc3.DefaultCandidates[0])
}

func TestParse_FullFile(t *testing.T) {
	const doc = `
workers: 3
preferred_delta: "0x87654321"
candidate_deltas: ["0x9e3779b9", 6383, 0x12e3f4a5]
poll_interval: 50ms
report_interval: 1s
log_level: debug
log_format: json
tui: true
metrics_file: /tmp/enc3.prom
replace:
  suffix: .bak
  restore_on_failure: false
discovery:
  dirs: [scripts]
  files: [main.lua, boot.lua]
  exclude: [[vendor], [cache, tmp]]
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 3, cfg.EffectiveWorkers())
	assert.Equal(t, Delta(0x87654321), cfg.PreferredDelta)
	assert.Equal(t, []uint32{0x9e3779b9, 0x18ef, 0x12e3f4a5}, cfg.Candidates())
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Second, cfg.ReportInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.TUI)
	assert.Equal(t, "/tmp/enc3.prom", cfg.MetricsFile)
	assert.Equal(t, ReplaceConfig{Suffix: ".bak", RestoreOnFailure: false}, cfg.Replace)
	assert.Equal(t, []string{"scripts"}, cfg.Discovery.Dirs)
	assert.Equal(t, [][]string{{"vendor"}, {"cache", "tmp"}}, cfg.Discovery.Exclude)

	bf := cfg.BruteForcer()
	assert.Equal(t, uint32(0x87654321), bf.Preferred)
	assert.Equal(t, []uint32{0x9e3779b9, 0x18ef, 0x12e3f4a5}, bf.Candidates)

	r := cfg.Replacer()
	assert.Equal(t, "x.lua.bak", r.BackupPath("x.lua"))
	assert.False(t, r.RestoreOnFailure)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("workers: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, Delta(enc3.DefaultDelta), cfg.PreferredDelta)
	assert.True(t, cfg.Replace.RestoreOnFailure)
	assert.Equal(t, Default().Discovery, cfg.Discovery)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool // validation failure rather than a decode failure
		want    string
	}{
		{"unknown key", "worker: 3\n", false, "field worker not found"},
		{"bad delta", "preferred_delta: nope\n", false, "invalid delta"},
		{"delta overflow", "preferred_delta: 0x1ffffffff\n", false, "invalid delta"},
		{"delta mapping", "preferred_delta: {a: 1}\n", false, "must be a scalar"},
		{"negative workers", "workers: -1\n", true, "workers"},
		{"too many workers", "workers: 5000\n", true, "workers"},
		{"bad log format", "log_format: xml\n", true, "log_format"},
		{"bad log level", "log_level: loud\n", true, "log_level"},
		{"zero poll", "poll_interval: 0s\n", true, "poll_interval"},
		{"report below poll", "poll_interval: 1s\nreport_interval: 100ms\n", true, "report_interval"},
		{"empty suffix", "replace:\n  suffix: \"\"\n", true, "replace.suffix"},
		{"suffix with slash", "replace:\n  suffix: /x\n", true, "replace.suffix"},
		{"empty exclude group", "discovery:\n  exclude: [[]]\n", true, "discovery.exclude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enc3.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestDelta_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(struct {
		D Delta `yaml:"d"`
	}{D: 0x18ef})
	require.NoError(t, err)
	assert.Equal(t, "d: \"0x000018ef\"\n", string(out))

	var back struct {
		D Delta `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Delta(0x18ef), back.D)
}

func TestWrite_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Workers = 4
	cfg.PreferredDelta = 0x87654321

	var buf strings.Builder
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), "preferred_delta: \"0x87654321\"")
	assert.Contains(t, buf.String(), "poll_interval: 100ms")

	back, err := Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestEffectiveWorkers_Default(t *testing.T) {
	cfg := Default()
	assert.GreaterOrEqual(t, cfg.EffectiveWorkers(), 1)
}
