// Package models defines server-side records persisted by the store.
package models

// ConfigKey is the fixed address of the singleton Config record.
const ConfigKey = "config"

// Config is the deployment-wide fee configuration.
type Config struct {
	// Price is the fee, in the smallest currency unit, charged per capsule.
	Price uint64
	// Authority is the only identity allowed to change Price.
	Authority string
	// Treasury receives every creation fee.
	Treasury string
}
