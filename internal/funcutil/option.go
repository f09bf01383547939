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
package funcutil

import "fmt"

// Option is a value that may be absent. The zero Option is absent.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an option holding x
func Some[T any](x T) Option[T] {
	return Option[T]{value: x, ok: true}
}

// None returns an absent option
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// ValueOr returns the value if it is present, def otherwise
func (o Option[T]) ValueOr(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// IsSome returns true if the option holds a value
func (o Option[T]) IsSome() bool {
	return o.ok
}

func (o Option[T]) String() string {
	if !o.ok {
		return "none"
	}
	return fmt.Sprintf("%v", o.value)
}
