// Package settings loads process configuration for the neutreeko binaries
// from an optional YAML file and the environment using cleanenv.
package settings
