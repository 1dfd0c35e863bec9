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

// Package catalog builds searchable item trees from slash-separated paths.
//
// Each path names a leaf; every segment before the last names a category,
// created on first use. Categories and leaves are indexed by their cleaned
// path in a patricia trie, which detects conflicts (a leaf reused as a
// category, or the reverse) and answers prefix queries over categories.
//
// Paths can be added one by one or loaded from a line-oriented stream:
//
//	# comment
//	Rendering/Camera
//	Rendering/Light<TAB>Adds a light source
//	--- Rendering
//
// A line starting with "---" appends a separator to the named category, or
// to the root when no category follows.
package catalog
