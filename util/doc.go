// Package util holds small string helpers shared across packages.
package util
