package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigMarshall is a mutable, marshalling form of Config.
//
// Get Config with TrySeal.
type ConfigMarshall struct {
	DBURI            string                    `yaml:"dbURI"`
	Port             string                    `yaml:"port,omitempty"`
	SchemaRepository string                    `yaml:"schemaRepository,omitempty"`
	NullSentinel     string                    `yaml:"nullSentinel,omitempty"`
	Pagination       *PaginationConfigMarshall `yaml:"pagination,omitempty"`
}

type PaginationConfigMarshall struct {
	DefaultLimit int `yaml:"defaultLimit,omitempty"`
	MaxLimit     int `yaml:"maxLimit,omitempty"`
}

// TrySeal verifies the configuration, fills defaults and creates read-only Config.
func (cm *ConfigMarshall) TrySeal() (*Config, error) {
	return cm.trySeal("(root)")
}

func (cm *ConfigMarshall) trySeal(path string) (*Config, error) {
	if cm.DBURI == "" {
		return nil, fmt.Errorf("%s.dbURI: required", path)
	}

	port := cm.Port
	if port == "" {
		port = DefaultPort
	}
	sentinel := cm.NullSentinel
	if sentinel == "" {
		sentinel = DefaultNullSentinel
	}

	pm := cm.Pagination
	if pm == nil {
		pm = &PaginationConfigMarshall{}
	}
	pagination, err := pm.trySeal(path + ".pagination")
	if err != nil {
		return nil, err
	}

	return &Config{
		dbURI:            cm.DBURI,
		port:             port,
		schemaRepository: cm.SchemaRepository,
		nullSentinel:     sentinel,
		pagination:       pagination,
	}, nil
}

func (pm *PaginationConfigMarshall) trySeal(path string) (*PaginationConfig, error) {
	def := pm.DefaultLimit
	if def == 0 {
		def = DefaultPaginationLimit
	}
	max := pm.MaxLimit
	if max == 0 {
		max = DefaultPaginationMaximum
	}
	if def < 0 {
		return nil, fmt.Errorf("%s.defaultLimit: should be positive (got %d)", path, def)
	}
	if max < def {
		return nil, fmt.Errorf("%s.maxLimit: should not be less than defaultLimit (got %d < %d)", path, max, def)
	}
	return &PaginationConfig{defaultLimit: def, maxLimit: max}, nil
}

// LoadServerConfig loads a config file in YAML.
func LoadServerConfig(filepath string) (*Config, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*Config, error) {
	out := new(ConfigMarshall)
	if err := yaml.Unmarshal(conf, out); err != nil {
		return nil, err
	}
	return out.TrySeal()
}
