package repository

import (
	"context"
	"io"

	"railway-reservation/internal/model"
)

// ScanFunc is called for every record in storage order. Returning false stops the scan.
type ScanFunc func(index int, ticket *model.Ticket) bool

// TicketStorage is a sequential container of fixed-size ticket records.
// Record positions are stable once written, so UpdateAt can rewrite a record in place.
type TicketStorage interface {
	// Load 依序讀取最多 max 筆紀錄；儲存不存在時回傳空 slice
	Load(ctx context.Context, max int) ([]*model.Ticket, error)
	// Scan 依序走訪紀錄，fn 回傳 false 時停止
	Scan(ctx context.Context, fn ScanFunc) error
	// Save 以 tickets 覆寫整個儲存
	Save(ctx context.Context, tickets []*model.Ticket) error
	// Append 在尾端新增一筆紀錄
	Append(ctx context.Context, ticket *model.Ticket) error
	// UpdateAt 原地覆寫第 index 筆紀錄
	UpdateAt(ctx context.Context, index int, ticket *model.Ticket) error
	// Exists 回傳儲存是否已建立（尚未訂過票時為 false）
	Exists(ctx context.Context) (bool, error)
}

// scanRecords decodes records from r until EOF. A trailing partial record is ignored.
func scanRecords(ctx context.Context, r io.Reader, fn ScanFunc) error {
	buf := make([]byte, model.RecordSize)
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
		var ticket model.Ticket
		if err := ticket.UnmarshalBinary(buf); err != nil {
			return err
		}
		if !fn(index, &ticket) {
			return nil
		}
	}
}

func loadRecords(ctx context.Context, s TicketStorage, max int) ([]*model.Ticket, error) {
	tickets := make([]*model.Ticket, 0)
	if max <= 0 {
		return tickets, nil
	}
	err := s.Scan(ctx, func(_ int, ticket *model.Ticket) bool {
		tickets = append(tickets, ticket)
		return len(tickets) < max
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func encodeRecords(tickets []*model.Ticket) ([]byte, error) {
	out := make([]byte, 0, len(tickets)*model.RecordSize)
	for _, ticket := range tickets {
		record, err := ticket.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, record...)
	}
	return out, nil
}
