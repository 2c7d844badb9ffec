package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// emitResult writes the resolved command line for shell-integration bindings
// to consume: to state.fileOutput when set (the init scripts point this at
// a pipe/temp file), otherwise to cmd's stdout. An extra leading blank line
// is printed first when state.extraLine is set, giving the shell prompt
// room before the result.
func emitResult(state *rootState, cmd *cobra.Command, line string) error {
	if state.extraLine {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if state.fileOutput == "" || state.fileOutput == "-" {
		fmt.Fprintln(cmd.OutOrStdout(), line)
		return nil
	}
	return os.WriteFile(state.fileOutput, []byte(line+"\n"), 0o600)
}
