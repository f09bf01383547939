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
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename.

Use [SetGlobalConfig](filename) to set filename as the global config, and then [LoadGlobal]() to load the global config.

A config file should be in yaml format. The top-level field is options, and its fields are defined by the [Options]
struct type. For example, a valid config file is as follows:

	options:
	  log-level: 4
	  max-routines: 4
	  decode-cache-size: 65536
	  report-cavities: true
	  path-filter: ".*\\.pdf$"

# Reports

When any of the report-* options is set, the tools write their results to files in the reports-dir directory in
addition to printing them. If reports-dir is not set, a fresh directory is created next to the config file.

# Compatibility options

legacy-trailing-cavity reproduces the way older tools closed a cavity that extends to the end of a file (one byte
short of the end). It should only be used to compare reports.
*/
package config
