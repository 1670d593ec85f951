package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// RecordSize is the on-disk size of one ticket, matching the C struct layout
// of the original data file on a 64-bit little-endian host.
const RecordSize = 108

const (
	offPNR    = 0
	offName   = 32
	offAge    = 84
	offGender = 88
	offSeat   = 100
	offActive = 104
)

// MarshalBinary encodes the ticket as a fixed-size record. Text fields are
// truncated to their capacity; padding bytes are zero.
func (t *Ticket) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	putString(buf[offPNR:offPNR+PNRLen], t.PNR)
	putString(buf[offName:offName+NameLen], t.Name)
	binary.LittleEndian.PutUint32(buf[offAge:], uint32(int32(t.Age)))
	putString(buf[offGender:offGender+GenderLen], t.Gender)
	binary.LittleEndian.PutUint32(buf[offSeat:], uint32(int32(t.SeatNo)))
	if t.Active {
		binary.LittleEndian.PutUint32(buf[offActive:], 1)
	}
	return buf, nil
}

// UnmarshalBinary decodes one fixed-size record.
func (t *Ticket) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("short record: %d bytes", len(data))
	}
	t.PNR = getString(data[offPNR : offPNR+PNRLen])
	t.Name = getString(data[offName : offName+NameLen])
	t.Age = int(int32(binary.LittleEndian.Uint32(data[offAge:])))
	t.Gender = getString(data[offGender : offGender+GenderLen])
	t.SeatNo = int(int32(binary.LittleEndian.Uint32(data[offSeat:])))
	t.Active = binary.LittleEndian.Uint32(data[offActive:]) != 0
	return nil
}

func putString(field []byte, s string) {
	copy(field, Truncate(s, len(field)))
}

func getString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}
