package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/launchmap/pkg/errors"
	"github.com/agentstation/launchmap/pkg/launches"
	"github.com/agentstation/launchmap/pkg/pipeline"
)

// sourceBatch is one source descriptor with the records scraped from it.
// Input files hold a list of these.
type sourceBatch struct {
	Source  launches.Source `json:"source" yaml:"source"`
	Records []launches.Raw  `json:"records" yaml:"records"`
}

// loadInputs reads an input file (JSON or YAML by extension) and
// flattens its source batches into pipeline inputs.
func loadInputs(path string) ([]pipeline.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var batches []sourceBatch
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &batches); err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &batches); err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}

	var inputs []pipeline.Input
	for _, batch := range batches {
		for _, record := range batch.Records {
			inputs = append(inputs, pipeline.Input{Record: record, Source: batch.Source})
		}
	}
	return inputs, nil
}

// writeOutput marshals v in the requested format to stdout or a file.
func writeOutput(v any, format, path string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(v)
	case "json", "":
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported output format %q (want json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
