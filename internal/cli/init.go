package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newInitCmd emits a shell snippet that binds a key combination to
// non-interactively invoke `search`/`new` against the current
// readline buffer, replacing it with the resolved command: each binding
// shells out and reads the printed result back into the line, using the
// --skip-execution/--file-output output protocol.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "init SHELL",
		Short:     "Print a shell snippet wiring key bindings to intelli-shell",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			script, ok := initScripts[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q (want bash, zsh, fish or powershell)", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), script)
			return nil
		},
	}
}

var initScripts = map[string]string{
	"bash": `_intelli_shell_search() {
  local out
  out="$(intelli-shell search --user-only=false "$READLINE_LINE" --file-output /dev/stdout --skip-execution)"
  if [[ -n "$out" ]]; then READLINE_LINE="$out"; READLINE_POINT=${#READLINE_LINE}; fi
}
_intelli_shell_new() {
  local out
  out="$(intelli-shell new "$READLINE_LINE" --file-output /dev/stdout --skip-execution)"
  if [[ -n "$out" ]]; then READLINE_LINE="$out"; READLINE_POINT=${#READLINE_LINE}; fi
}
bind -x '"\C-s": _intelli_shell_search'
bind -x '"\C-b": _intelli_shell_new'`,

	"zsh": `_intelli_shell_search() {
  local out
  out="$(intelli-shell search --user-only=false "$BUFFER" --file-output /dev/stdout --skip-execution)"
  if [[ -n "$out" ]]; then BUFFER="$out"; CURSOR=${#BUFFER}; fi
  zle reset-prompt
}
_intelli_shell_new() {
  local out
  out="$(intelli-shell new "$BUFFER" --file-output /dev/stdout --skip-execution)"
  if [[ -n "$out" ]]; then BUFFER="$out"; CURSOR=${#BUFFER}; fi
  zle reset-prompt
}
zle -N _intelli_shell_search
zle -N _intelli_shell_new
bindkey '^S' _intelli_shell_search
bindkey '^B' _intelli_shell_new`,

	"fish": `function _intelli_shell_search
    set -l out (intelli-shell search --user-only=false (commandline) --file-output /dev/stdout --skip-execution)
    if test -n "$out"
        commandline -r "$out"
    end
end
function _intelli_shell_new
    set -l out (intelli-shell new (commandline) --file-output /dev/stdout --skip-execution)
    if test -n "$out"
        commandline -r "$out"
    end
end
bind \cs _intelli_shell_search
bind \cb _intelli_shell_new`,

	"powershell": `Set-PSReadLineKeyHandler -Chord Ctrl+s -ScriptBlock {
  $line = $null; $cursor = $null
  [Microsoft.PowerShell.PSConsoleReadLine]::GetBufferState([ref]$line, [ref]$cursor)
  $out = intelli-shell search --user-only:$false $line --file-output - --skip-execution
  if ($out) {
    [Microsoft.PowerShell.PSConsoleReadLine]::RevertLine()
    [Microsoft.PowerShell.PSConsoleReadLine]::Insert($out)
  }
}
Set-PSReadLineKeyHandler -Chord Ctrl+b -ScriptBlock {
  $line = $null; $cursor = $null
  [Microsoft.PowerShell.PSConsoleReadLine]::GetBufferState([ref]$line, [ref]$cursor)
  $out = intelli-shell new $line --file-output - --skip-execution
  if ($out) {
    [Microsoft.PowerShell.PSConsoleReadLine]::RevertLine()
    [Microsoft.PowerShell.PSConsoleReadLine]::Insert($out)
  }
}`,
}
