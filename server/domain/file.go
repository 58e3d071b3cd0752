package domain

import "time"

type File struct {
	Room      string
	Name      string
	Size      int64
	Timestamp time.Time
}

func NewFile(room, name string, size int64, ts time.Time) File {
	return File{
		Room:      room,
		Name:      name,
		Size:      size,
		Timestamp: ts,
	}
}
