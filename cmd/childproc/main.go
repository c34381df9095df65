package main

import (
	"github.com/example/childproc/internal/cli"
	"github.com/example/childproc/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
