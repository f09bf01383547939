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
// Package tools contains the command-line plumbing shared by the polyprocess tools: common flags, configuration
// loading, and opening the trace.
package tools

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/polytracker/polyprocess/analysis"
	"github.com/polytracker/polyprocess/analysis/config"
	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/internal/formatutil"
)

// UnparsedCommonFlags is the flag set of a tool before parsing. Tools that need more than -config and -verbose
// register their own flags on FlagSet before calling Parse.
type UnparsedCommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath *string
	Verbose    *bool
}

// NewUnparsedCommonFlags returns a flag set named after the tool, with the -config and -verbose flags.
func NewUnparsedCommonFlags(name string) UnparsedCommonFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return UnparsedCommonFlags{
		FlagSet:    fs,
		ConfigPath: fs.String("config", "", "config file path for analysis"),
		Verbose:    fs.Bool("verbose", false, "verbose printing on standard output"),
	}
}

// CommonFlags are the parsed flags shared by all the tools. The positional arguments stay in FlagSet.
type CommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath string
	Verbose    bool
}

// Parse parses args into the flags, and returns the parsed common flags
func (u UnparsedCommonFlags) Parse(args []string) (CommonFlags, error) {
	if err := u.FlagSet.Parse(args); err != nil {
		return CommonFlags{}, fmt.Errorf("failed to parse command %s with args %v: %v", u.FlagSet.Name(), args, err)
	}
	return CommonFlags{FlagSet: u.FlagSet, ConfigPath: *u.ConfigPath, Verbose: *u.Verbose}, nil
}

// NewCommonFlags parses args for a tool that only has the common flags. The -help message starts with cmdUsage.
func NewCommonFlags(name string, args []string, cmdUsage string) (CommonFlags, error) {
	flags := NewUnparsedCommonFlags(name)
	SetUsage(flags.FlagSet, cmdUsage)
	return flags.Parse(args)
}

// SetUsage makes the -help message of fs print cmdUsage followed by the documentation of each flag.
func SetUsage(fs *flag.FlagSet, cmdUsage string) {
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "%s\nOptions:\n", cmdUsage)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(out, "  %s: %s (default: %q)\n", f.Name, f.Usage, f.DefValue)
		})
	}
}

// TracePath returns the path of the trace file, which must be the only positional argument
func (c CommonFlags) TracePath() (string, error) {
	args := c.FlagSet.Args()
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one trace file, got %d arguments %v", len(args), args)
	}
	return args[0], nil
}

// LoadConfig loads the config file at configPath and makes it the global config.
func LoadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("file not specified")
	}
	config.SetGlobalConfig(configPath)
	cfg, err := config.LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the config file of the flags if there is one, or returns the default config. The log
// level is raised to debug when the verbose flag is set.
func LoadConfigOrDefault(flags CommonFlags) (*config.Config, error) {
	cfg := config.NewDefault()
	if flags.ConfigPath != "" {
		var err error
		if cfg, err = LoadConfig(flags.ConfigPath); err != nil {
			return nil, err
		}
	}
	if flags.Verbose && cfg.LogLevel < int(config.DebugLevel) {
		cfg.LogLevel = int(config.DebugLevel)
	}
	return cfg, nil
}

// OpenTrace opens the trace file at path. When the config sets a decode cache size, the returned trace caches
// decoded nodes. The closer must be closed once the trace is not used anymore.
func OpenTrace(path string, cfg *config.Config, logger *config.LogGroup) (tdag.Trace, io.Closer, error) {
	f, err := tdag.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open trace: %w", err)
	}
	logger.Debugf("Opened %s: %d labels, %d files, %d sinks, %d output taints",
		path, f.LabelCount(), len(f.FDHeaders()), f.SinkCount(), f.OutputTaintCount())
	if cfg.DecodeCacheSize <= 0 {
		return f, f, nil
	}
	cached, err := tdag.NewCachedTrace(f, cfg.DecodeCacheSize)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return cached, f, nil
}

// Env is an opened trace, along with the configuration and logger of the tool analyzing it.
type Env struct {
	TracePath string
	Trace     tdag.Trace
	Config    *config.Config
	Logger    *config.LogGroup
	file      io.Closer
}

// Setup loads the configuration of the flags and opens their trace for the tool. The environment must be closed
// once the trace is not used anymore.
func Setup(tool string, flags CommonFlags) (*Env, error) {
	path, err := flags.TracePath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfigOrDefault(flags)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogGroup(cfg)
	trace, file, err := OpenTrace(path, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Infof(formatutil.Faint("polyprocess " + tool + " - " + analysis.Version))
	return &Env{TracePath: path, Trace: trace, Config: cfg, Logger: logger, file: file}, nil
}

// Close closes the trace file
func (e *Env) Close() error {
	return e.file.Close()
}

// WriteReport creates the file at path and calls write on it. Nothing is written when path is empty.
func WriteReport(path string, logger *config.LogGroup, write func(io.Writer) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not open report file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("could not write report %s: %w", path, err)
	}
	logger.Infof("Report written in %s", path)
	return f.Close()
}
