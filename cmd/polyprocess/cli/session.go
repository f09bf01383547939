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

package cli

import (
	"sync"
	"sync/atomic"

	"github.com/polytracker/polyprocess/analysis/config"
	"github.com/polytracker/polyprocess/analysis/mapping"
	"github.com/polytracker/polyprocess/analysis/tdag"
)

// Session stores the trace being explored and the results of the analyses run on it.
type Session struct {
	// TracePath is the path of the trace file
	TracePath string

	// ConfigPath is the path of the config file, empty if the default config is used
	ConfigPath string

	Config *config.Config
	Logger *config.LogGroup
	Trace  tdag.Trace

	// Mapping holds the input to output mapping of the trace, computed on first use
	Mapping *mapping.InputOutputMapping

	// TermWidth is the width of the terminal, used to lay out lists
	TermWidth int

	cavitiesOnce sync.Once
	cavitiesDone atomic.Bool
	cavities     []mapping.Cavity
	cavitiesErr  error
}

// NewSession returns a session exploring trace
func NewSession(tracePath string, configPath string, cfg *config.Config, logger *config.LogGroup,
	trace tdag.Trace) *Session {
	return &Session{
		TracePath:  tracePath,
		ConfigPath: configPath,
		Config:     cfg,
		Logger:     logger,
		Trace:      trace,
		Mapping:    mapping.New(trace, cfg, logger),
		TermWidth:  80,
	}
}

// Cavities returns the cavities of all the files of the trace. They are computed once.
func (s *Session) Cavities() ([]mapping.Cavity, error) {
	s.cavitiesOnce.Do(func() {
		s.cavities, s.cavitiesErr = s.Mapping.FileCavities()
		s.cavitiesDone.Store(true)
	})
	return s.cavities, s.cavitiesErr
}

// CavitiesComputed returns true if the cavities have already been computed
func (s *Session) CavitiesComputed() bool {
	return s.cavitiesDone.Load()
}
