package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/launchmap/pkg/errors"
	"github.com/agentstation/launchmap/pkg/launches"
)

func TestLoadInputsMissingFile(t *testing.T) {
	_, err := loadInputs(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Operation)
}

func TestLoadInputsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		body   string
		format string
	}{
		{"bad yaml", "in.yaml", "{not: [valid", "yaml"},
		{"bad json", "in.json", "{not json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := loadInputs(path)
			var parseErr *errors.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.format, parseErr.Format)
			assert.Equal(t, path, parseErr.File)
		})
	}
}

func TestLoadInputsFlattensBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	body := `[{"source":{"name":"spacex.com","quality_score":0.95},` +
		`"records":[{"mission_name":"Demo"},{"mission_name":"Demo 2"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	inputs, err := loadInputs(path)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "spacex.com", inputs[0].Source.Name)
	assert.Equal(t, "Demo 2", inputs[1].Record.String(launches.KeyMissionName))
}

func TestLoadInputsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, err := loadInputs(path)
	assert.ErrorContains(t, err, "unsupported input format")
}
