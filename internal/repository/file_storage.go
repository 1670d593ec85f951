package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"railway-reservation/internal/model"
	apperrors "railway-reservation/pkg/app_errors"
	"railway-reservation/pkg/logger"

	"go.uber.org/zap"
)

// FileTicketStorage keeps tickets in a flat binary file. The file is opened
// and closed around every operation; no handle is held in between.
type FileTicketStorage struct {
	path string
}

func NewFileTicketStorage(path string) *FileTicketStorage {
	return &FileTicketStorage{path: path}
}

func (s *FileTicketStorage) Path() string {
	return s.path
}

func (s *FileTicketStorage) Load(ctx context.Context, max int) ([]*model.Ticket, error) {
	return loadRecords(ctx, s, max)
}

func (s *FileTicketStorage) Scan(ctx context.Context, fn ScanFunc) error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return s.unavailable("open for read", err)
	}
	defer f.Close()

	return scanRecords(ctx, bufio.NewReader(f), fn)
}

func (s *FileTicketStorage) Save(ctx context.Context, tickets []*model.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeRecords(tickets)
	if err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return s.unavailable("open for write", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return f.Close()
}

func (s *FileTicketStorage) Append(ctx context.Context, ticket *model.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := ticket.MarshalBinary()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return s.unavailable("open for append", err)
	}
	if _, err := f.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", s.path, err)
	}
	return f.Close()
}

func (s *FileTicketStorage) UpdateAt(ctx context.Context, index int, ticket *model.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := ticket.MarshalBinary()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		return s.unavailable("open for update", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	offset := int64(index) * model.RecordSize
	if index < 0 || offset+model.RecordSize > info.Size() {
		return apperrors.ErrRecordOutOfRange
	}
	if _, err := f.WriteAt(record, offset); err != nil {
		return fmt.Errorf("update %s: %w", s.path, err)
	}
	return nil
}

func (s *FileTicketStorage) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, s.unavailable("stat", err)
	}
	return true, nil
}

func (s *FileTicketStorage) unavailable(op string, err error) error {
	logger.WithComponent("storage").Error("data file unavailable",
		zap.String("path", s.path), zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s %s: %v", apperrors.ErrStorageUnavailable, op, s.path, err)
}
