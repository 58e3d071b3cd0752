package domain

import (
	"math"
	"strconv"
	"strings"
)

const (
	MaxTextSize = math.MaxUint16
	MaxBlobSize = math.MaxInt32
)

const (
	ReplySuccess        = "SUCCESS"
	ReplyError          = "ERROR"
	ReplyRoomCreated    = "ROOM_CREATED"
	ReplyRoomJoined     = "ROOM_JOINED"
	ReplyRoomLeft       = "ROOM_LEFT"
	ReplyRoomDeleted    = "ROOM_DELETED"
	ReplyRoomList       = "ROOM_LIST"
	ReplyUserList       = "USER_LIST"
	ReplyFileList       = "FILE_LIST"
	ReplyReadyForUpload = "READY_FOR_UPLOAD"
	ReplyUploadSuccess  = "UPLOAD_SUCCESS"
	ReplyUploadError    = "UPLOAD_ERROR"
	ReplyFileData       = "FILE_DATA"
	ReplyDownloadError  = "DOWNLOAD_ERROR"
	ReplyDisconnect     = "DISCONNECT"
	ReplyWarning        = "WARNING"
	ReplyServer         = "SERVER"

	HistoryStart = "HISTORY_START"
	HistoryEnd   = "HISTORY_END"

	joinPrefix  = ">>> "
	leavePrefix = "<<< "
)

// Frame is one outbound unit. A frame carrying a blob is written as the
// text header immediately followed by the length prefixed payload, with
// nothing in between.
type Frame struct {
	Text    string
	Blob    []byte
	HasBlob bool
}

func NewTextFrame(text string) Frame {
	return Frame{Text: text}
}

func NewReply(kind, message string) Frame {
	return Frame{Text: kind + ":" + message}
}

func NewBlobFrame(header string, blob []byte) Frame {
	return Frame{Text: header, Blob: blob, HasBlob: true}
}

func (f Frame) String() string {
	if f.HasBlob {
		return f.Text + " <" + strconv.Itoa(len(f.Blob)) + " bytes>"
	}
	return f.Text
}

// ListReply joins items into one CSV frame. Items that would push the frame
// past MaxTextSize are dropped from the tail so the reply stays writable.
func ListReply(kind string, items []string) Frame {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte(':')
	for i, item := range items {
		need := len(item)
		if i > 0 {
			need++
		}
		if b.Len()+need > MaxTextSize {
			break
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(item)
	}
	return Frame{Text: b.String()}
}

// ListFits reports whether a listing of items fits into a single frame.
func ListFits(kind string, items []string) bool {
	size := len(kind) + 1
	for i, item := range items {
		if i > 0 {
			size++
		}
		size += len(item)
	}
	return size <= MaxTextSize
}

func ChatLine(sender, text string) string {
	return "[" + sender + "] " + text
}

// IsChatLine reports whether a broadcast line is user chat, the only kind of
// line kept in room history.
func IsChatLine(line string) bool {
	return strings.HasPrefix(line, "[")
}

func JoinNotice(user string) string {
	return joinPrefix + user + " joined the room"
}

func LeaveNotice(user string) string {
	return leavePrefix + user + " left the room"
}

func UploadNotice(user, file string) string {
	return joinPrefix + user + " uploaded " + file
}
