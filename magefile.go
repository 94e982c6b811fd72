//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles the executables into ./bin
func Build() error {
	mg.Deps(BuildClusters, BuildFeatures, BuildMeasureAlgos)
	fmt.Println("Compilation finished")
	return nil
}

func BuildClusters() error {
	fmt.Println("Building clusters executable...")
	return goCgo("build", "-o", "./bin/clusters", "./clusters")
}

func BuildFeatures() error {
	fmt.Println("Building features executable...")
	return goCgo("build", "-o", "./bin/features", "./features")
}

func BuildMeasureAlgos() error {
	fmt.Println("Building measureAlgos executable...")
	return goCgo("build", "-o", "./bin/measureAlgos", "./measureAlgos")
}

// Test runs the unit tests of every package
func Test() error {
	fmt.Println("Running tests...")
	return goCgo("test", "./...")
}

// goCgo runs the go tool with cgo enabled, HDF5 and SQLite need it.
func goCgo(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
