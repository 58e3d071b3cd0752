package domain

import "strings"

type CommandType int

const (
	CommandChat CommandType = iota
	CommandRegister
	CommandLogin
	CommandCreateRoom
	CommandJoinRoom
	CommandLeaveRoom
	CommandGetRooms
	CommandGetUsers
	CommandUploadFile
	CommandListFiles
	CommandDownloadFile
	CommandQuit
)

func (t CommandType) String() string {
	switch t {
	case CommandChat:
		return "chat"
	case CommandRegister:
		return "register"
	case CommandLogin:
		return "login"
	case CommandCreateRoom:
		return "create_room"
	case CommandJoinRoom:
		return "join_room"
	case CommandLeaveRoom:
		return "leave_room"
	case CommandGetRooms:
		return "get_rooms"
	case CommandGetUsers:
		return "get_users"
	case CommandUploadFile:
		return "upload_file"
	case CommandListFiles:
		return "list_files"
	case CommandDownloadFile:
		return "download_file"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is one decoded inbound text frame. Arg carries the room name,
// file name, username or chat text depending on Type; Password is only set
// for REGISTER and LOGIN.
type Command struct {
	Type     CommandType
	Arg      string
	Password string
	Raw      string
}

var prefixCommands = []struct {
	prefix string
	typ    CommandType
}{
	{"CREATE_ROOM:", CommandCreateRoom},
	{"JOIN_ROOM:", CommandJoinRoom},
	{"JOIN:", CommandJoinRoom},
	{"UPLOAD_FILE:", CommandUploadFile},
	{"DOWNLOAD_FILE:", CommandDownloadFile},
}

var exactCommands = map[string]CommandType{
	"LEAVE_ROOM": CommandLeaveRoom,
	"LEAVE":      CommandLeaveRoom,
	"GET_ROOMS":  CommandGetRooms,
	"GET_USERS":  CommandGetUsers,
	"LIST_FILES": CommandListFiles,
	"QUIT":       CommandQuit,
}

// ParseCommand classifies a frame received after the ready handshake. Room
// management wins over file transfer, anything unrecognised is chat.
func ParseCommand(line string) Command {
	trimmed := strings.TrimSpace(line)
	for _, p := range prefixCommands {
		if strings.HasPrefix(trimmed, p.prefix) {
			return Command{Type: p.typ, Arg: strings.TrimSpace(strings.TrimPrefix(trimmed, p.prefix)), Raw: line}
		}
	}
	if t, ok := exactCommands[trimmed]; ok {
		return Command{Type: t, Raw: line}
	}
	return Command{Type: CommandChat, Arg: line, Raw: line}
}

// ParseAuthCommand decodes frames accepted while authenticating. The
// password is everything after the second colon.
func ParseAuthCommand(line string) (Command, bool) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 {
		return Command{Raw: line}, false
	}
	var t CommandType
	switch parts[0] {
	case "REGISTER":
		t = CommandRegister
	case "LOGIN":
		t = CommandLogin
	default:
		return Command{Raw: line}, false
	}
	return Command{Type: t, Arg: strings.TrimSpace(parts[1]), Password: parts[2], Raw: line}, true
}

func (c Command) String() string {
	if c.Arg == "" {
		return c.Type.String()
	}
	return c.Type.String() + ": " + c.Arg
}
