// Package utils converts the loosely typed values found in decoded JSON parameter
// bags and CLI input into Go types.
package utils
