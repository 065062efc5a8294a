// Package lifecycle holds shared start/stop budgets for fx hooks.
package lifecycle

import "time"

// DefaultTimeout bounds connect, ping and shutdown work done inside fx lifecycle hooks.
const DefaultTimeout = 15 * time.Second
