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

// Package match runs a single query pass over an item tree.
//
// A pass walks the tree depth-first in pre-order. Categories are descended
// into but never matched; separators are skipped. Each leaf label is turned
// into a key and searched for the query key as a contiguous substring. Hits
// are handed to a Collector together with their Rank.
//
// Two keying modes exist and are mutually exclusive per pass:
//
//   - fuzzy: both sides go through normalize.AlternateKey, which strips
//     markup (optionally), folds case and drops noise characters
//   - exact: markup stripping and case folding are applied independently
//     as configured; noise characters are kept
//
// A pass ends Completed, Canceled (context done or the collector refused an
// item) or LimitReached. Cancellation is polled before every node and is not
// an error; partial results stay in the collector.
package match
