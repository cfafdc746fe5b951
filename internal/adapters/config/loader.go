// Package config provides the configuration loader for genopipe.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"genopipe/internal/core/domain"
)

// DefaultFilename is the pipeline file looked up in the working directory.
const DefaultFilename = "genopipe.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Load reads the configuration from the given working directory.
func (l *FileConfigLoader) Load(cwd string) (*domain.Config, error) {
	name := l.Filename
	if name == "" {
		name = DefaultFilename
	}
	return Load(filepath.Join(cwd, name))
}

// Load reads a pipeline file from the given path and returns the validated
// declaration.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read pipeline file")
	}

	var file pipelineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse pipeline file")
	}

	cfg := &domain.Config{
		CacheDir: file.CacheDir,
		MaxCores: file.MaxCores,
		Backend:  domain.BackendKind(file.Backend),
		Progress: domain.ProgressKind(file.Progress),
		Jobs:     make(map[string]domain.JobConfig, len(file.Jobs)),
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".genopipe"
	}
	if cfg.Backend == "" {
		cfg.Backend = domain.BackendLocal
	}
	if cfg.Progress == "" {
		cfg.Progress = domain.ProgressPlain
	}

	if cfg.Backend != domain.BackendLocal && cfg.Backend != domain.BackendDRMAA {
		return nil, zerr.With(zerr.New("unknown backend"), "backend", file.Backend)
	}
	if cfg.Progress != domain.ProgressPlain && cfg.Progress != domain.ProgressFancy {
		return nil, zerr.With(zerr.New("unknown progress mode"), "progress", file.Progress)
	}
	if cfg.MaxCores < 0 {
		return nil, zerr.With(zerr.New("max_cores must not be negative"), "max_cores", file.MaxCores)
	}

	// First pass: collect all job names to verify dependencies later.
	for name := range file.Jobs {
		if err := domain.ValidateName(name); err != nil {
			return nil, err
		}
	}

	// Second pass: validate and convert each declaration.
	for name, dto := range file.Jobs {
		if len(dto.Cmd) == 0 {
			return nil, zerr.With(zerr.New("job has an empty command"), "job", name)
		}
		for _, dep := range dto.DependsOn {
			if _, ok := file.Jobs[dep]; !ok {
				return nil, zerr.With(zerr.With(zerr.New("missing dependency"), "job", name), "missing_dependency", dep)
			}
		}
		if dto.NativeArgs != "" && cfg.Backend != domain.BackendDRMAA {
			return nil, zerr.With(zerr.New("native_args requires the drmaa backend"), "job", name)
		}
		cfg.Jobs[name] = domain.JobConfig{
			Cmd:        dto.Cmd,
			DependsOn:  dto.DependsOn,
			Cores:      dto.Cores,
			Version:    dto.Version,
			NativeArgs: dto.NativeArgs,
		}
	}

	return cfg, nil
}
