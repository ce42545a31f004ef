// Package loader registers HTTP features on the Fiber application.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager keeps features in registration order. LoadAll skips disabled features
// and stops at the first Load error. The storage gateway is the only feature today.
package loader
