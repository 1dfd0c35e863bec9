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

// Package tree provides the hierarchical item model searched by a picker.
//
// An Item is either a leaf (a selectable entry) or a branch (a category
// holding ordered children). Child storage is allocated lazily so that large
// trees do not pay for empty slices on every leaf. A separator is an Item
// variant that can never hold children and is used only as a visual divider.
//
// While a query is active each matched leaf carries a transient Rank, the
// position and length of the match inside its normalized label. Rank is
// cleared back to Unmatched when the query changes.
//
// Items are not safe for concurrent mutation. The search session serializes
// writes to the results node and to ranks; the source tree must not be
// mutated while a match pass is running.
package tree
