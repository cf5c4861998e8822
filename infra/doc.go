// Package infra contains the adapters to third-party systems: zerolog
// logging, Prometheus and InfluxDB metrics sinks, the MQTT event notifier
// and Sentry monitoring. These packages depend only on the interfaces
// defined in the core packages.
package infra
