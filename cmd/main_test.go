package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestOverlapCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staff.csv")
	body := "EmpID,ProjectID,DateFrom,DateTo\n" +
		"1,9,1_1_20,1_31_20\n" +
		"2,9,1_15_20,NULL\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := runCmd(t, "overlap", path, "--date-format", "M_d_yy", "--today", "2020-02-01")
	require.NoError(t, err)

	var got []dto.PairOverlap
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, []dto.PairOverlap{{EmployeeLowID: 1, EmployeeHighID: 2, ProjectID: 9, DaysWorkedTogether: 17}}, got)
}

func TestOverlapCmd_Errors(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "staff.txt")
	require.NoError(t, os.WriteFile(txt, []byte("EmpID,ProjectID,DateFrom,DateTo\n"), 0o600))

	_, err := runCmd(t, "overlap", txt)
	require.ErrorIs(t, err, dto.ErrNotCSV)

	_, err = runCmd(t, "overlap", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)

	_, err = runCmd(t, "overlap", txt, "--today", "01.02.2020")
	require.ErrorContains(t, err, "--today")

	_, err = runCmd(t, "overlap")
	require.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	require.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))
	require.Equal(t, defaultConfigPath, resolveConfigPath(""))

	t.Setenv("CONFIG_PATH", "/etc/overlap.yaml")
	require.Equal(t, "/etc/overlap.yaml", resolveConfigPath(""))
}
