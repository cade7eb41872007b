// main is the entry point for the cadence CLI.
package main

import (
	"github.com/huangsam/cadence/cmd"
	"github.com/huangsam/cadence/internal/contract"
)

// main starts the execution of the logic.
func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run cadence", err)
	}
}
