// Package config assembles the tracker and enrichment
// settings of release_diff from, lowest to highest
// precedence: built-in defaults, an optional YAML file, a
// .env file and the process environment.
//
// Values read from the .env file never override variables
// already present in the environment.
package config
