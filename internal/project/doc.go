// Package project loads loom.toml and hashes the feeds a run consumes.
package project
