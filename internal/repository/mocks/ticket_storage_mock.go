package mocks

import (
	"context"

	"railway-reservation/internal/model"
	"railway-reservation/internal/repository"

	"github.com/stretchr/testify/mock"
)

type TicketStorageMock struct {
	mock.Mock
}

var _ repository.TicketStorage = (*TicketStorageMock)(nil)

func NewTicketStorageMock() *TicketStorageMock {
	return &TicketStorageMock{}
}

func (m *TicketStorageMock) Load(ctx context.Context, max int) ([]*model.Ticket, error) {
	args := m.Called(ctx, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

// Scan 會把 Return 的第一個參數（[]*model.Ticket）依序餵給 fn
func (m *TicketStorageMock) Scan(ctx context.Context, fn repository.ScanFunc) error {
	args := m.Called(ctx, fn)
	if tickets, ok := args.Get(0).([]*model.Ticket); ok {
		for i, t := range tickets {
			copied := *t
			if !fn(i, &copied) {
				break
			}
		}
	}
	return args.Error(1)
}

func (m *TicketStorageMock) Save(ctx context.Context, tickets []*model.Ticket) error {
	args := m.Called(ctx, tickets)
	return args.Error(0)
}

func (m *TicketStorageMock) Append(ctx context.Context, ticket *model.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *TicketStorageMock) UpdateAt(ctx context.Context, index int, ticket *model.Ticket) error {
	args := m.Called(ctx, index, ticket)
	return args.Error(0)
}

func (m *TicketStorageMock) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}
