package main

import (
	"fmt"
	"os"

	"github.com/oakwood-commons/pathpick/cmd"
	"github.com/oakwood-commons/pathpick/pkg/logger"
)

func main() {
	err := cmd.Execute()
	if msg := cmd.ErrorMessage(err); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	logger.Sync()
	if code := cmd.ExitCode(err); code != 0 {
		os.Exit(code)
	}
}
