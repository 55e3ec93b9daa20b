// Package config handles YAML configuration loading with environment variable
// substitution.
//
// Configuration files support ${VAR} syntax for environment variable
// interpolation. Feed policy (event kind, date checking, identity fallback)
// is explicit configuration here, never a literal buried in a component.
package config
