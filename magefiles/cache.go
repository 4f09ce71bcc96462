//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Cache groups targets that manage the local call cache.
type Cache mg.Namespace

// Stats prints per-function entry counts of the call cache.
func (Cache) Stats() error {
	mg.Deps(Build)
	return sh.RunV("bin/evo-predict", "cache", "stats")
}

// Clear deletes every cached entry. Set FUNCTION to clear only one function.
func (Cache) Clear() error {
	mg.Deps(Build)
	args := []string{"cache", "clear"}
	if fn := os.Getenv("FUNCTION"); fn != "" {
		args = append(args, "--function", fn)
	}
	if err := sh.RunV("bin/evo-predict", args...); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
