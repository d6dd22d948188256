package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

// readRequest loads a comparison request from path, or from stdin when path
// is "-". YAML is accepted for .yaml/.yml files and for stdin documents that
// do not start with '{'.
func readRequest(cmd *cobra.Command, path string) (compare.Request, error) {
	var req compare.Request

	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return req, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot read input")
	}

	if isYAML(path, raw) {
		raw, err = yamlToJSON(raw)
		if err != nil {
			return req, errors.Wrap(err, errors.ErrCodeVehicleDecodeFailed, "cannot decode YAML input")
		}
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, errors.Wrap(err, errors.ErrCodeVehicleDecodeFailed, "cannot decode input")
	}
	return req, nil
}

func isYAML(path string, raw []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] != '{'
}

// yamlToJSON re-encodes a YAML document as JSON so records decode through
// their JSON field aliases.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
