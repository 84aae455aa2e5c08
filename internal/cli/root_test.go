package cli_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"austimes-tools/internal/cli"
	"austimes-tools/internal/config"
	"austimes-tools/internal/observability/metrics"
)

func defaultSettings() *config.Settings {
	return &config.Settings{LogLevel: "info", LogFormat: "console"}
}

func TestNewLogger(t *testing.T) {
	log, err := cli.NewLogger(&config.Settings{LogLevel: "debug", LogFormat: "json"})
	require.NoError(t, err)
	require.NotNil(t, log)

	log, err = cli.NewLogger(defaultSettings())
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = cli.NewLogger(&config.Settings{LogLevel: "verbose"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestRootCommandTree(t *testing.T) {
	cmd := cli.NewRootCommand(defaultSettings(), zap.NewNop())
	assert.Equal(t, "austimes", cmd.Name())

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "fuel-switching")
	assert.Contains(t, names, "luto")
	assert.Contains(t, names, "msm22-csvs")
	assert.NotNil(t, cmd.PersistentFlags().Lookup("metrics-out"))
}

func TestFuelSwitchingCommand(t *testing.T) {
	metrics.Init()
	dir := t.TempDir()
	input := filepath.Join(dir, "energy.csv")
	content := strings.Join([]string{
		"scen,region,sector,process,commodity,varbl,fuel,unit,hydrogen_source,2025,2030",
		"base,NSW,industry,IIS_Cement_Kiln,,fuel-consumption,Coal,PJ,,50,30",
		"base,NSW,industry,IIS_Cement_Kiln,,fuel-consumption,Electricity,PJ,,10,25",
		"base,NSW,industry,IIS_Cement_Kiln,,production,,Mt,,100,100",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0o644))

	output := filepath.Join(dir, "flows.csv")
	prom := filepath.Join(dir, "austimes.prom")

	cmd := cli.NewRootCommand(defaultSettings(), zap.NewNop())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"fuel-switching", input, "--output", output, "--metrics-out", prom})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "scen,region,subsector,process-group,year,unit,hydrogen_source,fuel-switched-from,fuel-switched-to,value,entry_type", lines[0])
	assert.Greater(t, len(lines), 1)

	promData, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(promData), "austimes_rows_ingested_total")
	assert.Contains(t, string(promData), "austimes_command_duration_seconds")
}

func TestFailedRunStillFlushesMetrics(t *testing.T) {
	metrics.Init()
	dir := t.TempDir()
	prom := filepath.Join(dir, "austimes.prom")

	cmd := cli.NewRootCommand(defaultSettings(), zap.NewNop())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"fuel-switching", filepath.Join(dir, "absent.csv"), "--metrics-out", prom})
	require.Error(t, cmd.Execute())

	assert.FileExists(t, prom)
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCommand(defaultSettings(), zap.NewNop())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"pivot"})
	assert.Error(t, cmd.Execute())
}
