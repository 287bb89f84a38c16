// Package configfile reads and writes service config files.
//
// A config file holds a single ServiceConfig rendered as a 2-space indented
// JSON object behind an ES module default export, so frontend packages can
// import it directly:
//
//	export default {
//	  "locationSelector": {
//	    "token": "abc123",
//	    "endpoint": "https://api.data-forge.tech"
//	  }
//	}
package configfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/data-forge-services/service-provisioning/interfaces"
)

const exportPrefix = "export default "

// Render serializes cfg as a default module export terminated by a newline.
func Render(cfg interfaces.ServiceConfig) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(exportPrefix)

	// Encode appends the trailing newline.
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("could not encode service config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders cfg and writes it to path, creating missing parent
// directories. Any existing file is overwritten.
func Write(path string, cfg interfaces.ServiceConfig) error {
	data, err := Render(cfg)
	if err != nil {
		return err
	}
	return WriteRendered(path, data)
}

// WriteRendered writes already rendered config bytes to path.
func WriteRendered(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", interfaces.ErrFilesystem, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write file: %v", interfaces.ErrFilesystem, err)
	}
	return nil
}

// Exists reports whether a regular file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Load reads the config file at path. A missing file is returned as the
// underlying fs error; anything that is not a default-exported JSON object
// fails with ErrMalformedConfig.
func Load(path string) (interfaces.ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read service config: %w", err)
	}
	return Parse(data)
}

// Parse decodes rendered config bytes.
func Parse(data []byte) (interfaces.ServiceConfig, error) {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte(exportPrefix)) {
		return nil, fmt.Errorf("%w: missing %q", interfaces.ErrMalformedConfig, exportPrefix)
	}
	trimmed = bytes.TrimPrefix(trimmed, []byte(exportPrefix))
	trimmed = bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte(";"))

	var cfg interfaces.ServiceConfig
	if err := json.Unmarshal(trimmed, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedConfig, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is not an object", interfaces.ErrMalformedConfig)
	}
	return cfg, nil
}

// LoadEntry loads path and returns the record for the named service.
func LoadEntry(path, service string) (interfaces.ServiceEntry, error) {
	cfg, err := Load(path)
	if err != nil {
		return interfaces.ServiceEntry{}, err
	}
	return cfg.Entry(service)
}
