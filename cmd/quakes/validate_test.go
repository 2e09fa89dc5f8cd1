package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runValidate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append([]string{"validate"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_SampleFeed(t *testing.T) {
	out, err := runValidate(t, filepath.Join("..", "..", "internal", "pipeline", "testdata", "feed_sample.geojson"))

	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "5 records")
	assert.Regexp(t, `felt_reports\s+2 present\s+3 absent`, out)
}

func TestValidate_RequiredColumn(t *testing.T) {
	path := writeFixture(t, "gaps.geojson", `{"features":[{"properties":{"place":"x"}}]}`)

	out, err := runValidate(t, "--require", "magnitude", path)

	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "FAIL")
}

func TestValidate_BadStructure(t *testing.T) {
	good := writeFixture(t, "good.geojson", `{"features":[]}`)
	bad := writeFixture(t, "bad.geojson", `{"type":"FeatureCollection"}`)

	out, err := runValidate(t, good, bad)

	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "unexpected_structure")
	assert.Contains(t, err.Error(), "1 of 2 files")
}

func TestValidate_UnknownColumn(t *testing.T) {
	path := writeFixture(t, "ok.geojson", `{"features":[]}`)

	_, err := runValidate(t, "--require", "mag", path)

	require.Error(t, err)
	assert.NotErrorIs(t, err, errValidationFailed)
}
