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

// Package session provides the query surface of an interactive picker.
//
// A Session owns the query string, the root of the searchable tree and a
// results node that is reused across queries. Every SetQuery supersedes the
// previous one: the running pass is canceled, the ranks of its matches are
// reset, the results node is cleared and, for a non-blank query, a new pass is
// submitted to a worker pool. SetQuery never waits for a pass.
//
// Passes write to the results node through a collector that holds the
// session lock and checks the pass generation before every insert, so a
// superseded pass can never add an item after the next query has cleared the
// results. Cancellation and the result limit are reported through State,
// IsRunning and ReachedLimit, never as errors.
//
// The source tree must not be mutated while a pass is running.
package session
