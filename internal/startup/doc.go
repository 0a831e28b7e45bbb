// Package startup loads and validates the service configuration and logs
// the startup banner.
//
// Configuration comes from environment variables, optionally layered over
// a YAML file named by CONFIG_FILE. The environment always wins, so a
// container can override a baked-in config without editing it.
package startup
