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

package treesearch

import (
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/treesearch/match"
	"github.com/poiesic/treesearch/session"
	"github.com/poiesic/treesearch/tree"
)

// Engine owns the worker pool shared by the search sessions it creates.
// Each session still runs at most one pass at a time; the pool only bounds
// how many sessions can be matching at once.
type Engine struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPoolSize sets the number of concurrent passes across all sessions.
// Default is runtime.NumCPU() / 2, with a minimum of 2.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 2 {
			size = 2
		}

		// Release old pool
		if e.pool != nil {
			e.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates an engine with its worker pool.
func NewEngine(opts ...Option) (*Engine, error) {
	// Default pool size. A superseded pass needs a worker to unwind on
	// while its replacement starts, hence the floor of two.
	poolSize := runtime.NumCPU() / 2
	if poolSize < 2 {
		poolSize = 2
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		pool:   pool,
		logger: slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// NewSession creates a session over root running on the engine's pool.
// Options passed here are applied after the engine's own, so a session may
// still override the logger.
func (e *Engine) NewSession(root *tree.Item, cfg *match.Config, opts ...session.Option) (*session.Session, error) {
	base := []session.Option{
		session.WithPool(e.pool),
		session.WithLogger(e.logger),
	}
	return session.New(root, cfg, append(base, opts...)...)
}

// Running returns the number of passes currently executing.
func (e *Engine) Running() int {
	return e.pool.Running()
}

// Cap returns the pool capacity.
func (e *Engine) Cap() int {
	return e.pool.Cap()
}

// Release releases the worker pool. Sessions created by the engine cannot
// start new passes afterwards.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
