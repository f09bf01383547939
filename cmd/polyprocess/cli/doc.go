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

/*
Package cli implements the polyprocess interactive CLI: a terminal application to explore a taint trace and run the
analyses on it, one query at a time. The trace is opened once, and the results of the analyses are kept between
commands.

Usage:

	polyprocess cli [flags] <trace file>

The flags are:

	-verbose=false
		verbose mode, raises the log level of the config file to debug
	-config config-file.yaml
		a configuration file for the analyses. If not specified, the default options are used.

# Basic Commands

	help             print a list of the commands, with short help messages for each

	exit             exit exits the program gracefully

	state?           show a summary of the state, including the paths to the trace and config files

	info             show statistics about the trace

	files            list the files of the trace, with their preallocated labels

# Inspecting Labels

	node label...             print the decoded nodes of the labels

	sources label [-nocf]     print the input bytes a label was computed from. With -nocf, only the bytes that
	.                         can be reached without going through a node affecting control flow are printed.

	tree label [--depth n]    print the tree of the labels a label refers to, down to depth n (default 3)

	sinks [--limit n]         print the sinks of the trace, at most n if a limit is given

# Running Analyses

	cavities [regex]          print the cavities of the files whose path matches regex, or of all the files

	mapping uid offset        print the output bytes the byte at offset of the file with index uid flows to

The results of cavities and mapping are computed on first use, and reused afterwards.
*/
package cli
