package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"railway-reservation/internal/model"
	"railway-reservation/internal/repository"
	apperrors "railway-reservation/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTicket(pnr string, seat int, active bool) *model.Ticket {
	return &model.Ticket{PNR: pnr, Name: "Passenger " + pnr, Age: 30, Gender: "M", SeatNo: seat, Active: active}
}

// storageFactories 讓同一組測試同時跑在檔案版與記憶體版
func storageFactories(t *testing.T) map[string]func() repository.TicketStorage {
	t.Helper()
	return map[string]func() repository.TicketStorage{
		"File": func() repository.TicketStorage {
			return repository.NewFileTicketStorage(filepath.Join(t.TempDir(), "tickets.dat"))
		},
		"Memory": func() repository.TicketStorage {
			return repository.NewMemoryTicketStorage()
		},
	}
}

func TestTicketStorage_Contract(t *testing.T) {
	ctx := context.Background()

	for name, newStorage := range storageFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("Empty storage loads nothing", func(t *testing.T) {
				storage := newStorage()
				tickets, err := storage.Load(ctx, 100)
				require.NoError(t, err)
				assert.Empty(t, tickets)
				assert.NotNil(t, tickets)
			})

			t.Run("Exists after first write", func(t *testing.T) {
				storage := newStorage()
				exists, err := storage.Exists(ctx)
				require.NoError(t, err)
				assert.False(t, exists)

				require.NoError(t, storage.Save(ctx, nil))
				exists, err = storage.Exists(ctx)
				require.NoError(t, err)
				assert.True(t, exists)
			})

			t.Run("Append keeps order", func(t *testing.T) {
				storage := newStorage()
				require.NoError(t, storage.Append(ctx, newTicket("A", 1, true)))
				require.NoError(t, storage.Append(ctx, newTicket("B", 2, true)))
				require.NoError(t, storage.Append(ctx, newTicket("C", 3, false)))

				tickets, err := storage.Load(ctx, 100)
				require.NoError(t, err)
				require.Len(t, tickets, 3)
				assert.Equal(t, "A", tickets[0].PNR)
				assert.Equal(t, "B", tickets[1].PNR)
				assert.Equal(t, "C", tickets[2].PNR)
				assert.False(t, tickets[2].Active)
			})

			t.Run("Load respects cap", func(t *testing.T) {
				storage := newStorage()
				for i := 1; i <= 4; i++ {
					require.NoError(t, storage.Append(ctx, newTicket(string(rune('A'+i)), i, true)))
				}
				tickets, err := storage.Load(ctx, 2)
				require.NoError(t, err)
				assert.Len(t, tickets, 2)

				tickets, err = storage.Load(ctx, 0)
				require.NoError(t, err)
				assert.Empty(t, tickets)
			})

			t.Run("Save overwrites", func(t *testing.T) {
				storage := newStorage()
				require.NoError(t, storage.Append(ctx, newTicket("OLD", 1, true)))
				require.NoError(t, storage.Save(ctx, []*model.Ticket{newTicket("X", 5, true), newTicket("Y", 6, false)}))

				tickets, err := storage.Load(ctx, 100)
				require.NoError(t, err)
				require.Len(t, tickets, 2)
				assert.Equal(t, "X", tickets[0].PNR)
				assert.Equal(t, "Y", tickets[1].PNR)
			})

			t.Run("UpdateAt rewrites in place", func(t *testing.T) {
				storage := newStorage()
				require.NoError(t, storage.Append(ctx, newTicket("A", 1, true)))
				require.NoError(t, storage.Append(ctx, newTicket("B", 2, true)))

				updated := newTicket("B", 2, false)
				require.NoError(t, storage.UpdateAt(ctx, 1, updated))

				tickets, err := storage.Load(ctx, 100)
				require.NoError(t, err)
				require.Len(t, tickets, 2)
				assert.True(t, tickets[0].Active)
				assert.False(t, tickets[1].Active)
			})

			t.Run("UpdateAt out of range", func(t *testing.T) {
				storage := newStorage()
				require.NoError(t, storage.Append(ctx, newTicket("A", 1, true)))

				assert.ErrorIs(t, storage.UpdateAt(ctx, 1, newTicket("A", 1, false)), apperrors.ErrRecordOutOfRange)
				assert.ErrorIs(t, storage.UpdateAt(ctx, -1, newTicket("A", 1, false)), apperrors.ErrRecordOutOfRange)
			})

			t.Run("Scan stops early", func(t *testing.T) {
				storage := newStorage()
				for i := 1; i <= 3; i++ {
					require.NoError(t, storage.Append(ctx, newTicket(string(rune('A'+i)), i, true)))
				}
				visited := 0
				err := storage.Scan(ctx, func(index int, _ *model.Ticket) bool {
					visited++
					return index < 1
				})
				require.NoError(t, err)
				assert.Equal(t, 2, visited)
			})

			t.Run("Cancelled context", func(t *testing.T) {
				storage := newStorage()
				cancelled, cancel := context.WithCancel(ctx)
				cancel()
				assert.ErrorIs(t, storage.Append(cancelled, newTicket("A", 1, true)), context.Canceled)
			})
		})
	}
}

func TestFileTicketStorage_PartialRecordIgnored(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tickets.dat")
	storage := repository.NewFileTicketStorage(path)
	require.NoError(t, storage.Append(ctx, newTicket("A", 1, true)))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.Write(make([]byte, model.RecordSize/2))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tickets, err := storage.Load(ctx, 100)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "A", tickets[0].PNR)
}

func TestFileTicketStorage_Unavailable(t *testing.T) {
	ctx := context.Background()
	// 父目錄不存在，任何寫入都會失敗
	path := filepath.Join(t.TempDir(), "missing", "tickets.dat")
	storage := repository.NewFileTicketStorage(path)

	assert.ErrorIs(t, storage.Append(ctx, newTicket("A", 1, true)), apperrors.ErrStorageUnavailable)
	assert.ErrorIs(t, storage.Save(ctx, nil), apperrors.ErrStorageUnavailable)
	assert.ErrorIs(t, storage.UpdateAt(ctx, 0, newTicket("A", 1, false)), apperrors.ErrStorageUnavailable)

	tickets, err := storage.Load(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestFileTicketStorage_MatchesMemoryBytes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tickets.dat")
	file := repository.NewFileTicketStorage(path)
	memory := repository.NewMemoryTicketStorage()

	for _, s := range []repository.TicketStorage{file, memory} {
		require.NoError(t, s.Append(ctx, newTicket("A", 1, true)))
		require.NoError(t, s.Append(ctx, newTicket("B", 2, true)))
		require.NoError(t, s.UpdateAt(ctx, 0, newTicket("A", 1, false)))
	}

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, memory.Bytes(), onDisk)
	assert.Len(t, onDisk, 2*model.RecordSize)
}

func TestMemoryTicketStorage_FromBytes(t *testing.T) {
	ctx := context.Background()
	record, err := newTicket("A", 1, true).MarshalBinary()
	require.NoError(t, err)

	storage := repository.NewMemoryTicketStorageFromBytes(append(record, 1, 2, 3))
	tickets, err := storage.Load(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "A", tickets[0].PNR)
}
