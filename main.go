package main

import (
	"fmt"

	"github.com/jssp-rl/jssp-ppo/benchmarks"
)

// main entry point to training, batch and evaluation runs
func main() {
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
