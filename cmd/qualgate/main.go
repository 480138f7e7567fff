// main is the entry point for the qualgate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/qualgate/qualgate/cmd"
	"github.com/qualgate/qualgate/internal/artifactlog"
)

func main() {
	cmd.SetArtifactManager(artifactlog.Manager)
	defer artifactlog.CloseArtifactLog()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		artifactlog.CloseArtifactLog()
		os.Exit(1)
	}
}
