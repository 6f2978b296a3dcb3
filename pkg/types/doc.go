// Package types defines the construction defaults and limits shared by the
// simulated memory subsystem, its process table, and its observers.
//
// This package has no dependencies beyond the standard library.
package types
