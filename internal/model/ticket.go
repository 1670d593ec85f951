package model

import (
	"math"
	"unicode/utf8"
)

const (
	// DefaultMaxSeats 預設座位數
	DefaultMaxSeats = 100

	PNRLen    = 32
	NameLen   = 50
	GenderLen = 10
)

// Ticket 車票紀錄
type Ticket struct {
	PNR    string `json:"pnr"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	SeatNo int    `json:"seat_no"`
	Active bool   `json:"active"`
}

// IsCancelled 檢查車票是否已取消
func (t *Ticket) IsCancelled() bool {
	return !t.Active
}

// BookTicketRequest 訂票請求
type BookTicketRequest struct {
	Name   string
	Age    int
	Gender string
}

// AgeFits reports whether age can be stored in the record's 32-bit age field.
func AgeFits(age int) bool {
	return age >= math.MinInt32 && age <= math.MaxInt32
}

// Truncate cuts s so that it fits a NUL-terminated field of the given
// capacity, never splitting a UTF-8 rune.
func Truncate(s string, capacity int) string {
	limit := capacity - 1
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
