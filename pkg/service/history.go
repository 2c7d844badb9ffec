package service

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// HistorySource selects which shell's history file ReadShellHistory reads.
type HistorySource string

const (
	HistoryBash       HistorySource = "bash"
	HistoryZsh        HistorySource = "zsh"
	HistoryFish       HistorySource = "fish"
	HistoryPowershell HistorySource = "powershell"
	HistoryNushell    HistorySource = "nushell"
	HistoryAtuin      HistorySource = "atuin"
)

// ReadShellHistory returns the commands recorded by source, oldest to
// newest, one per line, suitable as `import --history`/`fix --history`
// context. The home directory is resolved once and reused for every
// source's well-known path.
func ReadShellHistory(ctx context.Context, source HistorySource) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ierrors.HistoryHomeDirNotFound
	}

	switch source {
	case HistoryBash:
		return readPlainHistoryFile(filepath.Join(home, ".bash_history"))
	case HistoryZsh:
		return readZshHistoryFile(filepath.Join(home, ".zsh_history"))
	case HistoryFish:
		return readFishHistoryFile(fishHistoryPath(home))
	case HistoryPowershell:
		return readPlainHistoryFile(powershellHistoryPath(home))
	case HistoryNushell:
		return readNushellHistory(home)
	case HistoryAtuin:
		return readAtuinHistory(ctx, home)
	default:
		return "", ierrors.HistoryFileNotFoundErr{Path: string(source)}
	}
}

func readPlainHistoryFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ierrors.HistoryFileNotFoundErr{Path: path}
		}
		return "", ierrors.Wrap(err)
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

// zshExtendedHistoryRe strips the `: <timestamp>:<duration>;` prefix that
// zsh's EXTENDED_HISTORY option prepends to every entry.
var zshExtendedHistoryRe = regexp.MustCompile(`^: \d+:\d+;`)

func readZshHistoryFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ierrors.HistoryFileNotFoundErr{Path: path}
		}
		return "", ierrors.Wrap(err)
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = zshExtendedHistoryRe.ReplaceAllString(strings.TrimSpace(line), "")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

func fishHistoryPath(home string) string {
	return filepath.Join(home, ".local", "share", "fish", "fish_history")
}

// fishHistoryCmdRe pulls the command text out of fish's per-entry block
// format:
//
//	- cmd: ls -la
//	  when: 1690000000
var fishHistoryCmdRe = regexp.MustCompile(`^- cmd:\s*(.+)$`)

func readFishHistoryFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ierrors.HistoryFileNotFoundErr{Path: path}
		}
		return "", ierrors.Wrap(err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := fishHistoryCmdRe.FindStringSubmatch(scanner.Text()); m != nil {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", ierrors.Wrap(err)
	}
	return strings.Join(out, "\n"), nil
}

func powershellHistoryPath(home string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming", "Microsoft", "Windows", "PowerShell", "PSReadLine", "ConsoleHost_history.txt")
	}
	return filepath.Join(home, ".local", "share", "powershell", "PSReadLine", "ConsoleHost_history.txt")
}

func readNushellHistory(home string) (string, error) {
	path := filepath.Join(home, ".local", "share", "nushell", "history.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ierrors.HistoryNushellNotFound
		}
		return "", ierrors.HistoryNushellFailed
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

func atuinDBPath(home string) string {
	return filepath.Join(home, ".local", "share", "atuin", "history.db")
}

func readAtuinHistory(ctx context.Context, home string) (string, error) {
	path := atuinDBPath(home)
	if _, err := os.Stat(path); err != nil {
		return "", ierrors.HistoryAtuinNotFound
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		return "", ierrors.HistoryAtuinFailed
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT command FROM history ORDER BY timestamp ASC")
	if err != nil {
		return "", ierrors.HistoryAtuinFailed
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return "", ierrors.HistoryAtuinFailed
		}
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			out = append(out, cmd)
		}
	}
	if err := rows.Err(); err != nil {
		return "", ierrors.HistoryAtuinFailed
	}
	return strings.Join(out, "\n"), nil
}
