// Package appid holds the application identity used for binary naming,
// config directories and environment variable prefixes.
package appid

import "context"

// Identity describes how the application presents itself.
type Identity struct {
	Vendor      string
	BinaryName  string
	ConfigName  string
	EnvPrefix   string
	Description string
}

var identity = Identity{
	Vendor:      "wpstack",
	BinaryName:  "wpstack",
	ConfigName:  "wpstack",
	EnvPrefix:   "WPSTACK_",
	Description: "Scaffold, inspect and delete local WordPress development sites",
}

// Get returns the application identity.
func Get(_ context.Context) (*Identity, error) {
	id := identity
	return &id, nil
}
