package domain

import "errors"

var (
	ErrInvalidRoomName = errors.New("invalid room name")
	ErrEmptyRoomName   = errors.New("room name must not be empty")
	ErrRoomExists      = errors.New("room already exists")
	ErrRoomNotFound    = errors.New("room does not exist")
	ErrRoomNotEmpty    = errors.New("room is not empty")
	ErrDefaultRoom     = errors.New("default room cannot be deleted")
	ErrTooManyRooms    = errors.New("too many rooms")

	ErrInvalidFileName = errors.New("invalid file name")
	ErrExtension       = errors.New("file type not allowed")
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileNotFound    = errors.New("file not found")
	ErrTooManyFiles    = errors.New("too many files in room")

	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("password must not be empty")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username already taken")
	ErrBadCredentials  = errors.New("wrong password")
	ErrBanned          = errors.New("account is banned")
	ErrUsernameTaken   = errors.New("user is already logged in")
	ErrNotConnected    = errors.New("user is not connected")

	ErrFrameTooLarge  = errors.New("frame too large")
	ErrInvalidPattern = errors.New("invalid search pattern")
)
