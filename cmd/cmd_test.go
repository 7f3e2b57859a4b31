package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExpandRasters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.tif", "a.tif", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := expandRasters([]string{filepath.Join(dir, "*.tif"), "/elsewhere/x.tif"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.tif"), filepath.Join(dir, "b.tif"), "/elsewhere/x.tif"}, files)

	files, err = expandRasters([]string{filepath.Join(dir, "*.nc")})
	require.NoError(t, err)
	require.NotNil(t, files)
	require.Empty(t, files)
}

func TestCornerGridFromConfig(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "utm"))
	require.NoError(t, f.SetSheetRow("utm", "B4", &[]interface{}{0, 0, 10, 0, 10, 10, 0, 10}))
	in := filepath.Join(dir, "corners.xlsx")
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	cfg := filepath.Join(dir, "plotextract.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("grid:\n  sheet: utm\n  res: 5\n  first-row: 4\n  last-row: 4\n"), 0o644))

	var logs bytes.Buffer
	logrus.SetOutput(&logs)
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	out := filepath.Join(dir, "grid.csv")
	rootCmd.SetArgs([]string{"cornergrid", "--config", cfg, in, out})
	require.NoError(t, rootCmd.Execute())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	// Progress shows without --verbose.
	require.Contains(t, logs.String(), "1/1")
	require.Equal(t, "x,y\n0,0\n5,0\n10,0\n0,5\n5,5\n10,5\n0,10\n5,10\n10,10\n", string(got))
}
