package models

import "strings"

// CommandType enumerates the operator commands accepted over chat.
type CommandType string

const (
	CommandStatus    CommandType = "status"
	CommandStart     CommandType = "start"
	CommandStop      CommandType = "stop"
	CommandPingMixer CommandType = "ping"
	CommandReport    CommandType = "report"
	CommandBalance   CommandType = "balance"
	CommandHelp      CommandType = "help"
	CommandUnknown   CommandType = "unknown"
)

// Command represents a parsed operator instruction extracted from chat text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.ToLower(message))
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.TrimPrefix(tokens[0], "/")
	switch CommandType(head) {
	case CommandStatus, CommandStart, CommandStop, CommandPingMixer, CommandReport, CommandBalance, CommandHelp:
		cmd.Type = CommandType(head)
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
