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
	"io"
	"log"
	"os"
)

// LogLevel is the verbosity of a LogGroup. A message is printed when its level is at most the level of the group.
type LogLevel int

const (
	// ErrLevel=1 - the minimum level of logging.
	ErrLevel LogLevel = iota + 1

	// WarnLevel=2 - the level for logging warnings, and errors
	WarnLevel

	// InfoLevel=3 - the level for logging high-level information, results
	InfoLevel

	// DebugLevel=4 - the level for debugging information, including progress of the long passes over the trace.
	DebugLevel

	// TraceLevel=5 - the level for tracing, such as the files skipped by the cavity detector.
	TraceLevel
)

var levelPrefixes = [...]string{
	ErrLevel:   "[ERROR] ",
	WarnLevel:  "[WARN] ",
	InfoLevel:  "[INFO] ",
	DebugLevel: "[DEBUG] ",
	TraceLevel: "[TRACE] ",
}

// LogGroup is a set of loggers, one per level, that only print the messages allowed by the level of the group.
// Errors go to standard error, everything else to standard output.
type LogGroup struct {
	level   LogLevel
	loggers [TraceLevel + 1]*log.Logger
}

// NewLogGroup returns a log group that is configured to the logging settings stored inside the config
func NewLogGroup(config *Config) *LogGroup {
	l := &LogGroup{level: LogLevel(config.LogLevel)}
	for lvl := ErrLevel; lvl <= TraceLevel; lvl++ {
		var w io.Writer = os.Stdout
		if lvl == ErrLevel {
			w = os.Stderr
		}
		l.loggers[lvl] = log.New(w, levelPrefixes[lvl], log.Flags())
	}
	return l
}

// SetAllOutput sets all the output writers to the writer provided
func (l *LogGroup) SetAllOutput(w io.Writer) {
	for lvl := ErrLevel; lvl <= TraceLevel; lvl++ {
		l.loggers[lvl].SetOutput(w)
	}
}

// SetAllFlags sets the flag of all loggers in the log group to the argument provided
func (l *LogGroup) SetAllFlags(x int) {
	for lvl := ErrLevel; lvl <= TraceLevel; lvl++ {
		l.loggers[lvl].SetFlags(x)
	}
}

// Level returns the level of the log group
func (l *LogGroup) Level() LogLevel {
	return l.level
}

// LogsDebug returns true if debug messages are printed
func (l *LogGroup) LogsDebug() bool {
	return l.level >= DebugLevel
}

func (l *LogGroup) printf(lvl LogLevel, format string, v ...any) {
	if l.level >= lvl {
		l.loggers[lvl].Printf(format, v...)
	}
}

// Tracef prints to the trace logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Tracef(format string, v ...any) { l.printf(TraceLevel, format, v...) }

// Debugf prints to the debug logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Debugf(format string, v ...any) { l.printf(DebugLevel, format, v...) }

// Infof prints to the info logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Infof(format string, v ...any) { l.printf(InfoLevel, format, v...) }

// Warnf prints to the warning logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Warnf(format string, v ...any) { l.printf(WarnLevel, format, v...) }

// Errorf prints to the error logger. Arguments are handled in the manner of Printf
func (l *LogGroup) Errorf(format string, v ...any) { l.printf(ErrLevel, format, v...) }

// Progress counts the items of a long pass and logs the count at the debug level every interval items.
// A Progress is not safe for concurrent use; each pass should have its own.
type Progress struct {
	logger   *LogGroup
	what     string
	total    int
	interval int
	done     int
}

// NewProgress returns a progress counter for a pass over total items described by what. If interval <= 0, the
// default progress interval is used.
func (l *LogGroup) NewProgress(what string, total int, interval int) *Progress {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &Progress{logger: l, what: what, total: total, interval: interval}
}

// Tick counts one more item, and returns the number of items counted so far
func (p *Progress) Tick() int {
	p.done++
	if p.done%p.interval == 0 {
		p.logger.Debugf("%s: %d/%d processed", p.what, p.done, p.total)
	}
	return p.done
}

// Done returns the number of items counted so far
func (p *Progress) Done() int {
	return p.done
}
