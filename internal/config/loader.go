package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a launch manifest from the provided path. Environment
// references in the command, environment values, and paths are expanded,
// and relative paths are resolved against the manifest's directory.
func Load(path string) (*Launch, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var doc Launch
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}

	manifestDir := filepath.Dir(absPath)

	for i, arg := range doc.Command {
		doc.Command[i] = os.ExpandEnv(arg)
	}
	if len(doc.Env) > 0 {
		expanded := make(map[string]string, len(doc.Env))
		for k, v := range doc.Env {
			expanded[k] = os.ExpandEnv(v)
		}
		doc.Env = expanded
	}

	doc.Workdir = resolvePath(manifestDir, os.ExpandEnv(doc.Workdir))
	doc.Stdout = resolvePath(manifestDir, os.ExpandEnv(doc.Stdout))
	doc.Stderr = resolvePath(manifestDir, os.ExpandEnv(doc.Stderr))

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	return &doc, nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}
