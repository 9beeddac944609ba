package types

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when neither the argument list, the declared
// type nor the session names a timezone.
const DefaultTimezone = "UTC"

var locations sync.Map // name -> *time.Location

// LoadLocation resolves a timezone name against the system timezone
// database. Results are cached for the life of the process.
//
// Thread-safety: safe for concurrent use.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	actual, _ := locations.LoadOrStore(name, loc)
	return actual.(*time.Location), nil
}
