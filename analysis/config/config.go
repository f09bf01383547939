// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options of the trace post-processing tools.
// If some field is not defined in the config file, it will be set to its default value after loading.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// cavitiesReportFile is a file name in ReportsDir when ReportCavities is true
	cavitiesReportFile string

	// mappingReportFile is a file name in ReportsDir when ReportMapping is true
	mappingReportFile string

	// if the PathFilter is specified
	pathFilterRegex *regexp.Regexp
}

// Options holds the user-settable options of a Config.
type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the yaml config file this config struct has
	// been loaded does not specify a ReportsDir but sets any Report* option to true, then ReportsDir will be created
	// in the folder of the config file.
	ReportsDir string `yaml:"reports-dir"`

	// ReportCavities can be set to true, in which case the file cavities will also be written to a file named
	// cavities-*.out in the reports directory
	ReportCavities bool `yaml:"report-cavities"`

	// ReportMapping can be set to true, in which case the input to output mapping will also be written to a file
	// named mapping-*.out in the reports directory
	ReportMapping bool `yaml:"report-mapping"`

	// MaxRoutines is the number of input files the cavity detector processes in parallel.
	// If MaxRoutines <= 0, files are processed one at a time.
	MaxRoutines int `yaml:"max-routines"`

	// DecodeCacheSize is the number of decoded taint nodes kept in memory. If DecodeCacheSize <= 0, nodes are
	// decoded from the trace every time they are needed.
	DecodeCacheSize int `yaml:"decode-cache-size"`

	// ProgressInterval sets how many sinks (or output taints) are processed between two progress messages at the
	// debug level. If ProgressInterval <= 0, the default is used.
	ProgressInterval int `yaml:"progress-interval"`

	// LegacyTrailingCavity reproduces the historical behaviour of closing a cavity that reaches the end of a file
	// one byte short of the end. Only useful to compare with reports produced by older tools.
	LegacyTrailingCavity bool `yaml:"legacy-trailing-cavity"`

	// ContextBytes is the number of bytes printed before and after a cavity when printing file contents.
	ContextBytes int `yaml:"context-bytes"`

	// PathFilter restricts the input files whose cavities are reported. If the filter is a valid regex, the path
	// must match it, otherwise the path must start with it.
	PathFilter string `yaml:"path-filter"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:         "",
		cavitiesReportFile: "",
		mappingReportFile:  "",
		Options: Options{
			ReportsDir:           "",
			ReportCavities:       false,
			ReportMapping:        false,
			MaxRoutines:          DefaultMaxRoutines,
			DecodeCacheSize:      0,
			ProgressInterval:     DefaultProgressInterval,
			LegacyTrailingCavity: false,
			ContextBytes:         DefaultContextBytes,
			PathFilter:           "",
			LogLevel:             int(InfoLevel),
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadBytes(filename, b)
}

// LoadBytes parses the configuration in b. The filename is used to resolve relative paths and to place the
// reports directory.
func LoadBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	cfg.sourceFile = filename

	if cfg.ReportCavities || cfg.ReportMapping {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults replaces the unset or out of range options by their default, and compiles the path filter
func (c *Config) fillDefaults() {
	if c.LogLevel == 0 {
		c.LogLevel = int(InfoLevel)
	}
	if c.MaxRoutines <= 0 {
		c.MaxRoutines = DefaultMaxRoutines
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = DefaultProgressInterval
	}
	if c.ContextBytes < 0 {
		c.ContextBytes = DefaultContextBytes
	}
	if r, err := regexp.Compile(c.PathFilter); c.PathFilter != "" && err == nil {
		c.pathFilterRegex = r
	}
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}

	if c.ReportCavities {
		name, err := createReportFile(c.ReportsDir, "cavities-*.out")
		if err != nil {
			return err
		}
		c.cavitiesReportFile = name
	}
	if c.ReportMapping {
		name, err := createReportFile(c.ReportsDir, "mapping-*.out")
		if err != nil {
			return err
		}
		c.mappingReportFile = name
	}
	return nil
}

func createReportFile(dir string, pattern string) (string, error) {
	reportFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("could not create report file %s in %s", pattern, dir)
	}
	reportFile.Close() // the file will be reopened as needed
	return reportFile.Name(), nil
}

// CavitiesReportFile returns the file name that will contain the cavities report, or "" if there is none
func (c Config) CavitiesReportFile() string {
	return c.cavitiesReportFile
}

// MappingReportFile returns the file name that will contain the mapping report, or "" if there is none
func (c Config) MappingReportFile() string {
	return c.mappingReportFile
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPathFilter returns true if the file path matches the path filter set in the config file. If no
// path filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the path filter string is a prefix of the path
func (c Config) MatchPathFilter(filepath string) bool {
	if c.pathFilterRegex != nil {
		return c.pathFilterRegex.MatchString(filepath)
	} else if c.PathFilter != "" {
		return strings.HasPrefix(filepath, c.PathFilter)
	} else {
		return true
	}
}
