package usecase

import (
	"errors"
	"slices"

	"github.com/ponyo877/roomchat/server/domain"
)

// uploadFile runs the binary phase of an upload on the read goroutine.
// Only transport failures are returned; everything else is answered with
// UPLOAD_ERROR and the stream stays framed.
func (s *Session) uploadFile(name string) error {
	room := s.currentRoom()
	if room == "" {
		s.reply(domain.ReplyUploadError, "you are not in a room")
		return nil
	}
	if err := domain.ValidateFileName(name, s.uc.cfg.AllowedExtensions); err != nil {
		s.reply(domain.ReplyUploadError, errorText(err))
		return nil
	}
	if names, err := s.fileNames(room); err == nil && !slices.Contains(names, name) &&
		!domain.ListFits(domain.ReplyFileList, append(names, name)) {
		s.reply(domain.ReplyUploadError, domain.ErrTooManyFiles.Error())
		return nil
	}
	s.Reply(domain.NewTextFrame(domain.ReplyReadyForUpload))

	n, err := s.conn.ReadLength()
	if err != nil {
		return err
	}
	// Lengths past the protocol range are never worth draining.
	if n > domain.MaxBlobSize {
		s.logger.Info("upload length out of range, closing", "file", name, "size", n)
		s.reply(domain.ReplyUploadError, domain.ErrFileTooLarge.Error())
		return errSessionDone
	}
	if n > s.uc.cfg.MaxFileSize {
		if err := s.conn.Discard(n); err != nil {
			return err
		}
		s.logger.Info("upload rejected", "file", name, "size", n)
		s.reply(domain.ReplyUploadError, domain.ErrFileTooLarge.Error())
		return nil
	}
	data, err := s.conn.ReadPayload(n)
	if err != nil {
		return err
	}
	if err := s.uc.files.Save(room, name, data); err != nil {
		s.logger.Error("failed to store upload", "room", room, "file", name, "error", err)
		s.reply(domain.ReplyUploadError, "failed to store file")
		return nil
	}

	user := s.Username()
	s.reply(domain.ReplyUploadSuccess, name)
	if r, ok := s.uc.registry.Room(room); ok {
		r.Broadcast(domain.UploadNotice(user, name), s)
		if names, err := s.fileNames(room); err == nil {
			r.BroadcastToAll(domain.ListReply(domain.ReplyFileList, names))
		}
	}
	s.uc.record(room, user, domain.EventUpload, name)
	return nil
}

func (s *Session) downloadFile(name string) {
	room := s.currentRoom()
	if room == "" {
		s.reply(domain.ReplyDownloadError, "you are not in a room")
		return
	}
	if err := domain.ValidateFileName(name, s.uc.cfg.AllowedExtensions); err != nil {
		s.reply(domain.ReplyDownloadError, errorText(err))
		return
	}
	data, err := s.uc.files.Load(room, name)
	if err != nil {
		if !errors.Is(err, domain.ErrFileNotFound) {
			s.logger.Error("failed to load file", "room", room, "file", name, "error", err)
		}
		s.reply(domain.ReplyDownloadError, errorText(err))
		return
	}
	s.Reply(domain.NewBlobFrame(domain.ReplyFileData+":"+name, data))
}

func (s *Session) listFiles() {
	room := s.currentRoom()
	if room == "" {
		s.Reply(domain.ListReply(domain.ReplyFileList, nil))
		return
	}
	names, err := s.fileNames(room)
	if err != nil {
		s.logger.Error("failed to list files", "room", room, "error", err)
	}
	s.Reply(domain.ListReply(domain.ReplyFileList, names))
}

func (s *Session) fileNames(room string) ([]string, error) {
	files, err := s.uc.files.List(room)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names, nil
}
