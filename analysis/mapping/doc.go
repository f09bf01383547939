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
Package mapping relates the bytes of the input files of a trace to the bytes of its outputs.

An InputOutputMapping answers two questions about a trace:

  - Mapping: which output bytes does each input byte flow to? The answer is computed from the output taints of the
    trace, once, and cached.
  - FileCavities: which byte ranges of each input file are never used? A byte is used when it affects control flow,
    or when it flows to a sink without going through a node that affects control flow. The unused ranges are the
    cavities of the file.

The cavity search shares a set of seen labels between all the sinks of a file, so each node of the taint graph is
decoded at most a few times per file, however many sinks refer to it.

	m := mapping.New(trace, cfg, logger)
	cavities, err := m.FileCavities()
*/
package mapping
