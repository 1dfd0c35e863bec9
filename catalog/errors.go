// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import "errors"

var (
	// ErrEmptyPath is returned when a path has no non-blank segment.
	ErrEmptyPath = errors.New("empty path")

	// ErrPathConflict is returned when a path uses a leaf as a category or
	// a category as a leaf.
	ErrPathConflict = errors.New("path conflict")

	// ErrDuplicatePath is returned when a leaf path is added twice.
	ErrDuplicatePath = errors.New("duplicate path")

	// ErrUnknownCategory is returned when a separator targets a category
	// that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
)
