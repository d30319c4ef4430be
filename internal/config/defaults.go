package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host:    "127.0.0.1",
	Port:    "5432",
	User:    "myuser",
	Pass:    "mypassword",
	Name:    "marketplace",
	SSLMode: "disable",
}

var defaultGeocoder = Geocoder{
	BaseURL:     "https://nominatim.openstreetmap.org",
	UserAgent:   "service-delivery/1.0",
	Timeout:     15 * time.Second,
	MaxAttempts: 3,
	BaseDelay:   200 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultResolver = Resolver{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
}

var defaultKafka = Kafka{
	GroupID:       "service-delivery",
	OrdersTopic:   "orders.events",
	DeliveryTopic: "delivery.events",
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       10,
	Burst:      20,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultOps = Ops{
	Enabled: true,
	Addr:    "127.0.0.1:9090",
}

var defaultTimeouts = Timeouts{
	Operation: 3 * time.Second,
	Create:    2 * time.Minute,
}

func defaults() Config {
	return Config{
		Port:      defaultPort,
		LogLevel:  "info",
		DB:        defaultDB,
		Geocoder:  defaultGeocoder,
		Resolver:  defaultResolver,
		Kafka:     defaultKafka,
		RateLimit: defaultRateLimit,
		Ops:       defaultOps,
		Timeouts:  defaultTimeouts,
	}
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultGeocoder returns the default geocoder settings.
func DefaultGeocoder() Geocoder { return defaultGeocoder }

// DefaultResolver returns the default order lookup settings.
func DefaultResolver() Resolver { return defaultResolver }
