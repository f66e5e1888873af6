// Package testutil provides deterministic stand-ins for host services used
// across package tests.
package testutil
