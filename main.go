package main

import (
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/gaurav-prasanna/opuspipe/cmd"
)

func main() {
	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS env,
	// in which case the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	cmd.Execute()
}
