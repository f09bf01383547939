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

// Package analysis contains the version of the trace post-processing tools and general statistics about traces.
// The analyses themselves live in the sub-packages: tdag reads traces, mapping computes the input/output mapping and
// the file cavities, and report formats the results.
package analysis

// Version is the version of the polyprocess tools
const Version = "v0.3.1"
