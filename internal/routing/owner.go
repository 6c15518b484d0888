package routing

import "strings"

// Config maps intake answers to the HubSpot owner that should receive the
// deal. Lookups are by exact match only, case-insensitive and trimmed; an
// unknown service or city is not an error, it just falls through.
type Config struct {
	// ServiceOwners routes by service type and wins over everything else.
	ServiceOwners map[string]string
	// CityOwners routes by city when no service rule matched.
	CityOwners map[string]string
	// DefaultOwner is the last resort when no rule and no fallback apply.
	DefaultOwner string
}

// DefaultConfig is the routing used in production: weddings and direct sales
// have dedicated closers, the coastal cities have local teams, everything
// else lands on the general sales inbox.
func DefaultConfig(defaultOwner string) Config {
	if defaultOwner == "" {
		defaultOwner = "ventas@tutravel.com"
	}
	return Config{
		ServiceOwners: map[string]string{
			"weddings & events": "weddings@tutravel.com",
			"sales":             "sales@tutravel.com",
		},
		CityOwners: map[string]string{
			"cartagena": "cartagena@tutravel.com",
			"medellin":  "medellin@tutravel.com",
		},
		DefaultOwner: defaultOwner,
	}
}

// ResolveOwner picks the owner email for a deal. Priority: service rule,
// then city rule, then the caller-supplied fallback, then DefaultOwner.
func (c Config) ResolveOwner(serviceType, city, fallback string) string {
	if owner, ok := c.ServiceOwners[normalize(serviceType)]; ok {
		return owner
	}
	if owner, ok := c.CityOwners[normalize(city)]; ok {
		return owner
	}
	if fallback != "" {
		return fallback
	}
	return c.DefaultOwner
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
