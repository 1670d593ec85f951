package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"railway-reservation/internal/clock"
	"railway-reservation/internal/model"
	"railway-reservation/internal/repository"
	apperrors "railway-reservation/pkg/app_errors"
	"railway-reservation/pkg/logger"

	"go.uber.org/zap"
)

// maxPNRAttempts bounds how many times Book regenerates a PNR that already exists in storage.
const maxPNRAttempts = 5

// RandomSource supplies the 4-digit PNR suffix. *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type TicketService interface {
	LoadAll(ctx context.Context, max int) ([]*model.Ticket, error)
	SaveAll(ctx context.Context, tickets []*model.Ticket) error
	Append(ctx context.Context, ticket *model.Ticket) error
	CancelByPNR(ctx context.Context, pnr string) (bool, error)
	IsSeatTaken(ctx context.Context, seatNo int) (bool, error)
	NextAvailableSeat(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	FindByPNR(ctx context.Context, pnr string) (*model.Ticket, error)
	GeneratePNR() string

	// 訂票流程：分配座位 → 產生 PNR → 寫入
	Book(ctx context.Context, req model.BookTicketRequest) (*model.Ticket, error)
	ListActive(ctx context.Context) ([]*model.Ticket, error)
	SeatMap(ctx context.Context) ([]bool, error)
	HasData(ctx context.Context) (bool, error)
	Capacity() int
}

// TicketServiceConfig 可注入的座位數、時鐘與亂數來源；nil 或零值時使用預設。
type TicketServiceConfig struct {
	MaxSeats int
	Clock    clock.Clock
	Random   RandomSource
}

type TicketServiceImpl struct {
	storage  repository.TicketStorage
	maxSeats int
	clock    clock.Clock
	random   RandomSource
}

func NewTicketService(storage repository.TicketStorage, config *TicketServiceConfig) TicketService {
	s := &TicketServiceImpl{
		storage:  storage,
		maxSeats: model.DefaultMaxSeats,
		clock:    clock.NewSystem(),
	}
	if config != nil {
		if config.MaxSeats > 0 {
			s.maxSeats = config.MaxSeats
		}
		if config.Clock != nil {
			s.clock = config.Clock
		}
		s.random = config.Random
	}
	if s.random == nil {
		seed := uint64(s.clock.Now().UnixNano())
		s.random = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return s
}

// HasData reports whether the backing data file has been created yet.
func (s *TicketServiceImpl) HasData(ctx context.Context) (bool, error) {
	return s.storage.Exists(ctx)
}

func (s *TicketServiceImpl) Capacity() int {
	return s.maxSeats
}

func (s *TicketServiceImpl) LoadAll(ctx context.Context, max int) ([]*model.Ticket, error) {
	return s.storage.Load(ctx, max)
}

func (s *TicketServiceImpl) SaveAll(ctx context.Context, tickets []*model.Ticket) error {
	return s.storage.Save(ctx, tickets)
}

func (s *TicketServiceImpl) Append(ctx context.Context, ticket *model.Ticket) error {
	return s.storage.Append(ctx, ticket)
}

func (s *TicketServiceImpl) CancelByPNR(ctx context.Context, pnr string) (bool, error) {
	index := -1
	var target *model.Ticket
	err := s.storage.Scan(ctx, func(i int, t *model.Ticket) bool {
		if t.Active && t.PNR == pnr {
			index, target = i, t
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, nil
	}

	target.Active = false
	if err := s.storage.UpdateAt(ctx, index, target); err != nil {
		return false, err
	}

	logger.WithComponent("service").Info("ticket cancelled",
		zap.String("pnr", pnr), zap.Int("seat_no", target.SeatNo), zap.Int("record", index))
	return true, nil
}

func (s *TicketServiceImpl) IsSeatTaken(ctx context.Context, seatNo int) (bool, error) {
	taken := false
	err := s.storage.Scan(ctx, func(_ int, t *model.Ticket) bool {
		if t.Active && t.SeatNo == seatNo {
			taken = true
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}
	return taken, nil
}

// NextAvailableSeat 由 1 開始找第一個空位 (first-fit ascending)
func (s *TicketServiceImpl) NextAvailableSeat(ctx context.Context) (int, error) {
	for seat := 1; seat <= s.maxSeats; seat++ {
		taken, err := s.IsSeatTaken(ctx, seat)
		if err != nil {
			return 0, err
		}
		if !taken {
			return seat, nil
		}
	}
	return 0, apperrors.ErrNoSeatsAvailable
}

func (s *TicketServiceImpl) CountActive(ctx context.Context) (int, error) {
	count := 0
	err := s.storage.Scan(ctx, func(_ int, t *model.Ticket) bool {
		if t.Active {
			count++
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindByPNR returns the first record with the given PNR whether or not it
// is still active; callers check Active to tell a cancelled booking apart.
func (s *TicketServiceImpl) FindByPNR(ctx context.Context, pnr string) (*model.Ticket, error) {
	var found *model.Ticket
	err := s.storage.Scan(ctx, func(_ int, t *model.Ticket) bool {
		if t.PNR == pnr {
			found = t
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.ErrTicketNotFound
	}
	return found, nil
}

func (s *TicketServiceImpl) GeneratePNR() string {
	now := s.clock.Now()
	return fmt.Sprintf("PNR%02d%02d%02d%02d%04d",
		int(now.Month()), now.Day(), now.Hour(), now.Minute(), s.random.IntN(10000))
}

func (s *TicketServiceImpl) Book(ctx context.Context, req model.BookTicketRequest) (*model.Ticket, error) {
	log := logger.WithComponent("service")

	// 0. age 欄位是 int32，超出範圍就不處理，避免存進去的值和回傳的不同
	if !model.AgeFits(req.Age) {
		return nil, fmt.Errorf("%w: age %d out of range", apperrors.ErrInvalidInput, req.Age)
	}

	// 1. 分配座位，沒有空位就不寫入任何資料
	seat, err := s.NextAvailableSeat(ctx)
	if err != nil {
		return nil, err
	}

	// 2. 產生 PNR，撞號時重新產生
	pnr, err := s.uniquePNR(ctx)
	if err != nil {
		return nil, err
	}

	ticket := &model.Ticket{
		PNR:    pnr,
		Name:   model.Truncate(req.Name, model.NameLen),
		Age:    req.Age,
		Gender: model.Truncate(req.Gender, model.GenderLen),
		SeatNo: seat,
		Active: true,
	}

	// 3. 寫入失敗時座位仍視為空位
	if err := s.storage.Append(ctx, ticket); err != nil {
		log.Error("failed to append ticket", zap.String("pnr", pnr), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSaveFailed, err)
	}

	log.Info("ticket booked", zap.String("pnr", pnr), zap.Int("seat_no", seat))
	return ticket, nil
}

func (s *TicketServiceImpl) uniquePNR(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxPNRAttempts; attempt++ {
		pnr := s.GeneratePNR()
		_, err := s.FindByPNR(ctx, pnr)
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			return pnr, nil
		}
		if err != nil {
			return "", err
		}
		logger.WithComponent("service").Warn("generated pnr already exists", zap.String("pnr", pnr), zap.Int("attempt", attempt+1))
	}
	return "", apperrors.ErrPNRCollision
}

func (s *TicketServiceImpl) ListActive(ctx context.Context) ([]*model.Ticket, error) {
	tickets := make([]*model.Ticket, 0)
	err := s.storage.Scan(ctx, func(_ int, t *model.Ticket) bool {
		if t.Active {
			tickets = append(tickets, t)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// SeatMap 回傳每個座位是否已被訂，index 為座位號 - 1
func (s *TicketServiceImpl) SeatMap(ctx context.Context) ([]bool, error) {
	seats := make([]bool, s.maxSeats)
	for seat := 1; seat <= s.maxSeats; seat++ {
		taken, err := s.IsSeatTaken(ctx, seat)
		if err != nil {
			return nil, err
		}
		seats[seat-1] = taken
	}
	return seats, nil
}
