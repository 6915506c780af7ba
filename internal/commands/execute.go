package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Set      func(SetArgs) (Result, error)
	Water    func() (Result, error)
	Break    func(BreakArgs) (Result, error)
	Screen   func(ScreenArgs) (Result, error)
	Show     func(ShowArgs) (Result, error)
	Export   func(FileArgs) (Result, error)
	Import   func(FileArgs) (Result, error)
	Defaults func() (Result, error)
	ReadAll  func() (Result, error)
	Logout   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeSet:
		if handlers.Set == nil {
			return missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	case TypeWater:
		if handlers.Water == nil {
			return missing(cmd.Type)
		}
		return handlers.Water()
	case TypeBreak:
		if handlers.Break == nil {
			return missing(cmd.Type)
		}
		return handlers.Break(*cmd.Break)
	case TypeScreen:
		if handlers.Screen == nil {
			return missing(cmd.Type)
		}
		return handlers.Screen(*cmd.Screen)
	case TypeShow:
		if handlers.Show == nil {
			return missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	case TypeExport:
		if handlers.Export == nil {
			return missing(cmd.Type)
		}
		return handlers.Export(*cmd.File)
	case TypeImport:
		if handlers.Import == nil {
			return missing(cmd.Type)
		}
		return handlers.Import(*cmd.File)
	case TypeDefaults:
		if handlers.Defaults == nil {
			return missing(cmd.Type)
		}
		return handlers.Defaults()
	case TypeReadAll:
		if handlers.ReadAll == nil {
			return missing(cmd.Type)
		}
		return handlers.ReadAll()
	case TypeLogout:
		if handlers.Logout == nil {
			return missing(cmd.Type)
		}
		return handlers.Logout()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
