// Package ierrors implements a two-level error taxonomy: small typed
// UserFacing error values safe to print directly, and an
// Unexpected wrapper for everything else that carries a stack trace and
// renders as a crash with a bug-report banner.
package ierrors

import (
	"fmt"
	"runtime/debug"
)

// UserFacing is implemented by every named error kind in .
type UserFacing interface {
	error
	userFacing()
}

type kind struct{ msg string }

func (k kind) Error() string  { return k.msg }
func (k kind) userFacing()    {}
func newKind(msg string) kind { return kind{msg: msg} }

// Simple, argument-less kinds.
var (
	Cancelled                          UserFacing = newKind("cancelled")
	InvalidRegex                       UserFacing = newKind("invalid regular expression")
	InvalidFuzzy                       UserFacing = newKind("fuzzy search term cannot be empty")
	EmptyCommand                       UserFacing = newKind("command cannot be empty")
	CommandAlreadyExists               UserFacing = newKind("a command with this content already exists")
	VariableValueAlreadyExists         UserFacing = newKind("this value is already stored for the variable")
	CompletionAlreadyExists            UserFacing = newKind("a completion is already registered for this variable")
	CompletionInvalidCommand           UserFacing = newKind("the root command is not valid")
	CompletionEmptyVariable            UserFacing = newKind("the variable name cannot be empty")
	CompletionInvalidVariable          UserFacing = newKind("the variable name is not valid")
	CompletionEmptySuggestionsProvider UserFacing = newKind("the suggestions provider cannot be empty")
	ImportLocationNotAFile             UserFacing = newKind("the import location is not a file")
	ImportFileNotFound                 UserFacing = newKind("the import file was not found")
	ExportLocationNotAFile             UserFacing = newKind("the export location is not a file")
	ExportFileParentNotFound           UserFacing = newKind("the export file's parent directory does not exist")
	ExportGistLocationHasSha           UserFacing = newKind("cannot export to a specific gist revision")
	ExportGistMissingToken             UserFacing = newKind("a gist token is required to export")
	FileBrokenPipe                     UserFacing = newKind("broken pipe")
	HttpInvalidUrl                     UserFacing = newKind("invalid URL")
	GistMissingId                      UserFacing = newKind("a gist id is required")
	GistInvalidLocation                UserFacing = newKind("the gist location could not be parsed")
	GistFileNotFound                   UserFacing = newKind("the requested file was not found in the gist")
	HistoryHomeDirNotFound             UserFacing = newKind("the home directory could not be determined")
	HistoryNushellNotFound             UserFacing = newKind("nushell history file was not found")
	HistoryNushellFailed               UserFacing = newKind("failed to read nushell history")
	HistoryAtuinNotFound               UserFacing = newKind("atuin is not installed")
	HistoryAtuinFailed                 UserFacing = newKind("failed to read atuin history")
	AiRequired                         UserFacing = newKind("an AI provider is required for this operation")
	AiEmptyCommand                      UserFacing = newKind("the AI returned an empty command")
	AiRequestTimeout                    UserFacing = newKind("the AI request timed out")
	AiUnavailable                       UserFacing = newKind("the AI provider is currently unavailable")
	AiRateLimit                         UserFacing = newKind("the AI provider rate-limited this request")
)

// Kinds that carry a payload get their own type.

type ImportCompletionInvalidFormatErr struct{ Msg string }

func (e ImportCompletionInvalidFormatErr) Error() string { return "invalid completion format: " + e.Msg }
func (ImportCompletionInvalidFormatErr) userFacing()     {}

type FileNotAccessibleErr struct{ Which string }

func (e FileNotAccessibleErr) Error() string { return "file not accessible: " + e.Which }
func (FileNotAccessibleErr) userFacing()     {}

type HttpRequestFailedErr struct{ Msg string }

func (e HttpRequestFailedErr) Error() string { return "HTTP request failed: " + e.Msg }
func (HttpRequestFailedErr) userFacing()     {}

type GistRequestFailedErr struct{ Msg string }

func (e GistRequestFailedErr) Error() string { return "gist request failed: " + e.Msg }
func (GistRequestFailedErr) userFacing()     {}

type HistoryFileNotFoundErr struct{ Path string }

func (e HistoryFileNotFoundErr) Error() string { return "history file not found: " + e.Path }
func (HistoryFileNotFoundErr) userFacing()     {}

type AiMissingOrInvalidApiKeyErr struct{ Env string }

func (e AiMissingOrInvalidApiKeyErr) Error() string {
	return "missing or invalid API key: " + e.Env
}
func (AiMissingOrInvalidApiKeyErr) userFacing() {}

type AiRequestFailedErr struct{ Msg string }

func (e AiRequestFailedErr) Error() string { return "AI request failed: " + e.Msg }
func (AiRequestFailedErr) userFacing()     {}

type LatestVersionRequestFailedErr struct{ Msg string }

func (e LatestVersionRequestFailedErr) Error() string {
	return "could not check latest version: " + e.Msg
}
func (LatestVersionRequestFailedErr) userFacing() {}

type ConfigParseFailedErr struct{ Msg string }

func (e ConfigParseFailedErr) Error() string { return "couldn't parse config file: " + e.Msg }
func (ConfigParseFailedErr) userFacing()     {}

type ConfigKeybindingConflictErr struct {
	Key     string
	Actions []string
}

func (e ConfigKeybindingConflictErr) Error() string {
	msg := "key binding conflict on " + e.Key + ": "
	for i, a := range e.Actions {
		if i > 0 {
			msg += ", "
		}
		msg += a
	}
	return msg
}
func (ConfigKeybindingConflictErr) userFacing() {}

// Unexpected wraps any error that isn't one of the named UserFacing kinds: a
// bug, not a user mistake. It carries a stack trace captured at the point of
// wrapping so the eventual crash report has something to point at.
type Unexpected struct {
	Cause      error
	StackTrace string
}

func (e *Unexpected) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Cause)
}

func (e *Unexpected) Unwrap() error { return e.Cause }

// Wrap turns any non-UserFacing error into an Unexpected, capturing a stack
// trace. If err is already UserFacing (or nil), it's returned unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(UserFacing); ok {
		return err
	}
	return &Unexpected{Cause: err, StackTrace: string(debug.Stack())}
}
