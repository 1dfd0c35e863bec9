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

// Package normalize turns raw item labels into comparison strings.
//
// Three transforms are provided and can be composed:
//   - StripMarkup removes rich-text tag spans such as <b> or </color>
//   - ToLower folds case with locale-invariant rules
//   - AlternateKey strips markup, folds case and deletes separator noise
//     (space, underscore, hyphen, tab, newline, carriage return, period)
//     in a single pass
//
// Index performs the contiguous substring search used to match a query key
// against a label key. KeyBuilder reuses its output buffer between calls and
// is meant to be owned by a single goroutine for the duration of a match pass.
package normalize
