package health

import (
	"context"
	"fmt"
)

// PingCheck reports down, or degraded when optional is set, if ping fails.
func PingCheck(ping func(ctx context.Context) error, optional bool) Check {
	return func(ctx context.Context) ComponentHealth {
		if err := ping(ctx); err != nil {
			status := StatusDown
			if optional {
				status = StatusDegraded
			}
			return ComponentHealth{Status: status, Message: err.Error()}
		}
		return ComponentHealth{Status: StatusUp}
	}
}

// IndexCheck reports up while count() is positive.
func IndexCheck(count func() int) Check {
	return func(ctx context.Context) ComponentHealth {
		n := count()
		if n <= 0 {
			return ComponentHealth{Status: StatusDown, Message: "index is empty"}
		}
		return ComponentHealth{Status: StatusUp, Message: fmt.Sprintf("%d documents", n)}
	}
}
