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

package match

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/treesearch/normalize"
)

// DefaultKeyCacheSize is the number of label keys a session remembers.
const DefaultKeyCacheSize = 4096

// keyMode captures every setting that changes the key produced for a label.
type keyMode struct {
	fuzzy   bool
	strip   bool
	fold    bool
	markers normalize.Markers
}

type cacheKey struct {
	label string
	mode  keyMode
}

// KeyCache remembers the keys computed for labels across passes, so that
// retyping a query does not re-normalize the whole tree. It is safe for
// concurrent use. A nil *KeyCache is valid and caches nothing.
type KeyCache struct {
	entries *lru.Cache[cacheKey, string]
}

// NewKeyCache creates a cache holding up to size keys.
func NewKeyCache(size int) (*KeyCache, error) {
	entries, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating key cache: %w", err)
	}
	return &KeyCache{entries: entries}, nil
}

func (c *KeyCache) get(label string, mode keyMode) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.entries.Get(cacheKey{label: label, mode: mode})
}

func (c *KeyCache) add(label string, mode keyMode, key string) {
	if c == nil {
		return
	}
	c.entries.Add(cacheKey{label: label, mode: mode}, key)
}

// Len returns the number of cached keys.
func (c *KeyCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached key.
func (c *KeyCache) Purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}
