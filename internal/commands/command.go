package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeSet      Type = "set"
	TypeWater    Type = "water"
	TypeBreak    Type = "break"
	TypeScreen   Type = "screen"
	TypeShow     Type = "show"
	TypeExport   Type = "export"
	TypeImport   Type = "import"
	TypeDefaults Type = "defaults"
	TypeReadAll  Type = "read"
	TypeLogout   Type = "logout"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type SetArgs struct {
	Field string
	Value string
}

type BreakArgs struct {
	Action string
}

type ScreenArgs struct {
	Action string
}

type ShowArgs struct {
	Subject string
}

type FileArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Set    *SetArgs
	Break  *BreakArgs
	Screen *ScreenArgs
	Show   *ShowArgs
	File   *FileArgs
}

var (
	breakActions  = []string{"start", "stop", "now", "cancel"}
	screenActions = []string{"start", "pause", "reset"}
	showSubjects  = []string{"dashboard", "settings", "notifications", "reports", "help"}
)

// aliases map shorthand words onto canonical command types.
var aliases = map[string]Type{
	"glass":   TypeWater,
	"drink":   TypeWater,
	"go":      TypeShow,
	"signout": TypeLogout,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeSet:
		return parseSet(input, args)
	case TypeBreak:
		action, err := parseAction("break", args, breakActions)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeBreak, Raw: input, Break: &BreakArgs{Action: action}}, nil
	case TypeScreen:
		action, err := parseAction("screen", args, screenActions)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeScreen, Raw: input, Screen: &ScreenArgs{Action: action}}, nil
	case TypeShow:
		subject, err := parseAction("show", args, showSubjects)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeShow, Raw: input, Show: &ShowArgs{Subject: subject}}, nil
	case TypeExport, TypeImport:
		return parseFile(input, typ, args)
	case TypeWater, TypeDefaults, TypeReadAll, TypeLogout:
		return Command{Type: typ, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a field and a value"}
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Field: strings.ToLower(args[0]), Value: strings.Join(args[1:], " ")}}, nil
}

func parseAction(name string, args []string, allowed []string) (string, error) {
	if len(args) == 0 {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one of: %s", name, strings.Join(allowed, ", "))}
	}
	action := strings.ToLower(args[0])
	for _, a := range allowed {
		if a == action {
			return action, nil
		}
	}
	return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s: unknown argument %q (want %s)", name, action, strings.Join(allowed, ", "))}
}

func parseFile(raw string, typ Type, args []string) (Command, error) {
	path := strings.TrimSpace(strings.Join(args, " "))
	if path == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a file path", typ)}
	}
	return Command{Type: typ, Raw: raw, File: &FileArgs{Path: path}}, nil
}
