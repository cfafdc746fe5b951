package config

// pipelineFile represents the structure of the genopipe.yaml pipeline file.
type pipelineFile struct {
	Version  string            `yaml:"version"`
	CacheDir string            `yaml:"cache_dir"`
	MaxCores int               `yaml:"max_cores"`
	Backend  string            `yaml:"backend"`
	Progress string            `yaml:"progress"`
	Jobs     map[string]jobDTO `yaml:"jobs"`
}

// jobDTO represents a job declaration in the pipeline file.
type jobDTO struct {
	Cmd        []string `yaml:"cmd"`
	DependsOn  []string `yaml:"dependsOn"`
	Cores      int      `yaml:"cores"`
	Version    int      `yaml:"version"`
	NativeArgs string   `yaml:"native_args"`
}
