// Package config holds the pipeline configuration and its YAML
// loader. A Config is pure data: the logger package turns it into
// running sinks and a dispatcher, and the crash supervisor re-reads
// it on every rebuild, which is what makes restarts reset runtime
// state back to configured defaults.
package config
