// Package util provides small generic helpers shared by pipelayer packages.
package util
