package reports

import "time"

type options struct {
	loc *time.Location
}

// Option adjusts report rendering.
type Option func(*options)

// InLocation reads timestamps in loc.
func InLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}
