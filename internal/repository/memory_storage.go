package repository

import (
	"bytes"
	"context"
	"sync"

	"railway-reservation/internal/model"
	apperrors "railway-reservation/pkg/app_errors"
)

// MemoryTicketStorage 使用記憶體模擬資料檔，編碼與檔案版相同，方便測試比對位元組
type MemoryTicketStorage struct {
	mu      sync.Mutex
	data    []byte
	created bool
}

func NewMemoryTicketStorage() *MemoryTicketStorage {
	return &MemoryTicketStorage{}
}

// NewMemoryTicketStorageFromBytes starts from raw file contents, which may
// end in a partial record.
func NewMemoryTicketStorageFromBytes(data []byte) *MemoryTicketStorage {
	return &MemoryTicketStorage{data: bytes.Clone(data), created: true}
}

// Bytes returns a copy of the encoded contents.
func (s *MemoryTicketStorage) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.data)
}

func (s *MemoryTicketStorage) Load(ctx context.Context, max int) ([]*model.Ticket, error) {
	return loadRecords(ctx, s, max)
}

func (s *MemoryTicketStorage) Scan(ctx context.Context, fn ScanFunc) error {
	s.mu.Lock()
	snapshot := bytes.Clone(s.data)
	s.mu.Unlock()
	return scanRecords(ctx, bytes.NewReader(snapshot), fn)
}

func (s *MemoryTicketStorage) Save(ctx context.Context, tickets []*model.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeRecords(tickets)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.created = true
	return nil
}

func (s *MemoryTicketStorage) Append(ctx context.Context, ticket *model.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := ticket.MarshalBinary()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, record...)
	s.created = true
	return nil
}

func (s *MemoryTicketStorage) UpdateAt(ctx context.Context, index int, ticket *model.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := ticket.MarshalBinary()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	offset := index * model.RecordSize
	if index < 0 || offset+model.RecordSize > len(s.data) {
		return apperrors.ErrRecordOutOfRange
	}
	copy(s.data[offset:], record)
	return nil
}

func (s *MemoryTicketStorage) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created, nil
}
