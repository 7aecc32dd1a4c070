/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package grant

import (
	"context"
	"time"

	"github.com/appsuite/oauthd/internal/system/log"
)

// Sweeper removes expired authorization artifacts.
type Sweeper interface {
	SweepExpired(ctx context.Context) (codes int64, grants int64, err error)
}

// SessionSweeper removes expired login sessions and CSRF tokens.
type SessionSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Cleaner periodically sweeps expired codes, grants and login sessions until its context is cancelled.
type Cleaner struct {
	sweeper  Sweeper
	sessions []SessionSweeper
	interval time.Duration
}

// NewCleaner creates a cleaner running every interval.
func NewCleaner(sweeper Sweeper, interval time.Duration, sessions ...SessionSweeper) *Cleaner {
	return &Cleaner{sweeper: sweeper, sessions: sessions, interval: interval}
}

// Start runs the cleaner in a new goroutine. The returned channel is closed once it stops.
func (c *Cleaner) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(ctx)
	}()
	return done
}

func (c *Cleaner) run(ctx context.Context) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "GrantCleaner"))
	logger.Debug("Starting grant cleaner", log.String("interval", c.interval.String()))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Grant cleaner stopped")
			return
		case <-ticker.C:
			c.sweep(ctx, logger)
		}
	}
}

func (c *Cleaner) sweep(ctx context.Context, logger *log.Logger) {
	codes, grants, err := c.sweeper.SweepExpired(ctx)
	if err != nil {
		logger.Error("Failed to remove expired grants", log.Error(err))
	} else if codes > 0 || grants > 0 {
		logger.Info("Removed expired authorization artifacts",
			log.Int64("codes", codes), log.Int64("grants", grants))
	}

	for _, sessions := range c.sessions {
		removed, err := sessions.SweepExpired(ctx)
		if err != nil {
			logger.Error("Failed to remove expired login sessions", log.Error(err))
			continue
		}
		if removed > 0 {
			logger.Debug("Removed expired login sessions", log.Int("entries", removed))
		}
	}
}
