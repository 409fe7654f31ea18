// Package alimit holds the exact arithmetic behind entitlement limits:
// allow/deny of a consumption, remaining quota, and the instant an exhausted
// limit becomes available again.
package alimit

import (
	"encoding/json"
	"fmt"
)

// Limit is a usage ceiling: either a finite count or unlimited.
// The zero value is a finite limit of 0. JSON null means unlimited.
type Limit struct {
	value     int64
	unlimited bool
}

// LimitOf builds a finite limit.
func LimitOf(n int64) Limit {
	return Limit{value: n}
}

// Unlimited builds the unbounded limit.
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// IsUnlimited reports whether the limit is unbounded.
func (l Limit) IsUnlimited() bool { return l.unlimited }

// Value returns the finite ceiling; zero when unlimited.
func (l Limit) Value() int64 {
	if l.unlimited {
		return 0
	}
	return l.value
}

func (l Limit) String() string {
	if l.unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", l.value)
}

// MarshalJSON renders unlimited as null and finite limits as numbers.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.unlimited {
		return []byte(`null`), nil
	}
	return json.Marshal(l.value)
}

// UnmarshalJSON accepts null for unlimited or a number for a finite limit.
func (l *Limit) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = Unlimited()
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*l = LimitOf(n)
	return nil
}
