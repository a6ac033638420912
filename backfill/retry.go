// Copyright 2026 Intelmart Labs
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

package backfill

import (
	"context"
	"log/slog"
	"time"
)

// Retry runs operation under the Config's retry policy: up to MaxRetries
// attempts, starting at RetryDelay and doubling after each failure. The
// last attempt's error is returned when all of them fail; a cancelled
// context wins over both outcomes.
func (c *Config) Retry(ctx context.Context, operation func() error) error {
	if c.MaxRetries <= 0 {
		return ErrInvalidMaxRetries
	}

	delay := c.RetryDelay
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("embedding call succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if attempt == c.MaxRetries {
			return lastErr
		}

		slog.Debug("embedding call failed, backing off",
			"attempt", attempt, "maxRetries", c.MaxRetries, "delay", delay, "error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
