package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"railway-reservation/internal/model"
	"railway-reservation/internal/service"
	apperrors "railway-reservation/pkg/app_errors"
	"railway-reservation/pkg/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const seatsPerRow = 10

const (
	choiceExit = iota
	choiceBook
	choiceCancel
	choiceViewAll
	choiceSearch
	choiceSeatMap
)

// ConsoleHandler 以數字選單操作 TicketService，每個選項對應一組 service 呼叫
type ConsoleHandler struct {
	service service.TicketService
	in      *bufio.Reader
	out     io.Writer

	titleStyle  lipgloss.Style
	bookedStyle lipgloss.Style
	freeStyle   lipgloss.Style
}

func NewConsoleHandler(service service.TicketService, in io.Reader, out io.Writer) *ConsoleHandler {
	renderer := lipgloss.NewRenderer(out)
	return &ConsoleHandler{
		service:     service,
		in:          bufio.NewReader(in),
		out:         out,
		titleStyle:  renderer.NewStyle().Bold(true),
		bookedStyle: renderer.NewStyle().Foreground(lipgloss.Color("9")),
		freeStyle:   renderer.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Run shows the menu until the user picks Exit or input ends.
func (h *ConsoleHandler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.printMenu()

		line, err := h.readLine()
		if err != nil {
			return h.finish(err)
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			h.println("Invalid input. Try again.")
			continue
		}

		log := logger.WithComponent("handler").With(
			zap.String("op_id", uuid.New().String()),
			zap.Int("choice", choice),
		)

		switch choice {
		case choiceBook:
			err = h.Book(ctx, log)
		case choiceCancel:
			err = h.Cancel(ctx, log)
		case choiceViewAll:
			err = h.ViewAll(ctx, log)
		case choiceSearch:
			err = h.Search(ctx, log)
		case choiceSeatMap:
			err = h.SeatMap(ctx, log)
		case choiceExit:
			h.println("Goodbye!")
			return nil
		default:
			h.println("Invalid choice.")
		}
		if err != nil {
			return h.finish(err)
		}

		h.printf("\nPress Enter to continue...")
		if _, err := h.readLine(); err != nil {
			return h.finish(err)
		}
	}
}

func (h *ConsoleHandler) Book(ctx context.Context, log *zap.Logger) error {
	h.println("\n--- Book Ticket ---")

	name, err := h.prompt("Passenger name: ")
	if err != nil {
		return err
	}
	ageText, err := h.prompt("Age: ")
	if err != nil {
		return err
	}
	age, err := parseAge(ageText)
	if err != nil {
		h.handleError(err, "Book", log)
		return nil
	}
	gender, err := h.prompt("Gender (M/F/O): ")
	if err != nil {
		return err
	}

	ticket, err := h.service.Book(ctx, model.BookTicketRequest{Name: name, Age: age, Gender: gender})
	if err != nil {
		h.handleError(err, "Book", log)
		return nil
	}

	h.println("\n" + h.titleStyle.Render("Booking successful!"))
	h.printTicket(ticket)
	return nil
}

func (h *ConsoleHandler) Cancel(ctx context.Context, log *zap.Logger) error {
	h.println("\n--- Cancel Ticket ---")
	pnr, err := h.prompt("Enter PNR: ")
	if err != nil {
		return err
	}

	if h.noBookings(ctx, "Cancel", log) {
		h.println("PNR not found or already cancelled.")
		return nil
	}

	cancelled, err := h.service.CancelByPNR(ctx, pnr)
	if err != nil {
		h.handleError(err, "Cancel", log)
		return nil
	}
	if cancelled {
		h.printf("Ticket %s cancelled successfully.\n", pnr)
	} else {
		h.println("PNR not found or already cancelled.")
	}
	return nil
}

func (h *ConsoleHandler) ViewAll(ctx context.Context, log *zap.Logger) error {
	if h.noBookings(ctx, "ViewAll", log) {
		return nil
	}

	tickets, err := h.service.ListActive(ctx)
	if err != nil {
		h.handleError(err, "ViewAll", log)
		return nil
	}

	h.println("\n" + h.titleStyle.Render("--- All Active Bookings ---"))
	h.printf("%-16s %-20s %-4s %-6s %-6s\n", "PNR", "Name", "Age", "Gender", "Seat")
	h.println(strings.Repeat("-", 64))
	for _, t := range tickets {
		h.printf("%-16s %-20s %-4d %-6s %-6d\n", t.PNR, t.Name, t.Age, t.Gender, t.SeatNo)
	}
	if len(tickets) == 0 {
		h.println("No active bookings.")
	}
	return nil
}

func (h *ConsoleHandler) Search(ctx context.Context, log *zap.Logger) error {
	h.println("\n--- Search Booking by PNR ---")
	pnr, err := h.prompt("Enter PNR: ")
	if err != nil {
		return err
	}

	if h.noBookings(ctx, "Search", log) {
		return nil
	}

	ticket, err := h.service.FindByPNR(ctx, pnr)
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		h.println("PNR not found.")
	case err != nil:
		h.handleError(err, "Search", log)
	case ticket.IsCancelled():
		h.printf("PNR %s was cancelled earlier.\n", pnr)
	default:
		h.println("")
		h.printTicket(ticket)
	}
	return nil
}

func (h *ConsoleHandler) SeatMap(ctx context.Context, log *zap.Logger) error {
	seats, err := h.service.SeatMap(ctx)
	if err != nil {
		h.handleError(err, "SeatMap", log)
		return nil
	}

	h.println("\n" + h.titleStyle.Render("--- Seat Map (X = booked, O = available) ---"))
	booked := 0
	for i, taken := range seats {
		marker := h.freeStyle.Render("O")
		if taken {
			marker = h.bookedStyle.Render("X")
			booked++
		}
		h.printf("%3d[%s] ", i+1, marker)
		if (i+1)%seatsPerRow == 0 {
			h.println("")
		}
	}
	h.printf("\nTotal seats: %d | Booked: %d | Available: %d\n",
		len(seats), booked, len(seats)-booked)
	return nil
}

func (h *ConsoleHandler) handleError(err error, operation string, log *zap.Logger) {
	log = log.With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid age input")
		h.println("Invalid age input.")
	case errors.Is(err, apperrors.ErrNoSeatsAvailable):
		log.Warn("No seats available")
		h.println("Sorry, no seats available.")
	case errors.Is(err, apperrors.ErrSaveFailed):
		log.Error("Failed to save booking")
		h.println("Failed to save booking.")
	case errors.Is(err, apperrors.ErrPNRCollision):
		log.Error("PNR collision")
		h.println("Could not generate a unique PNR, please try again.")
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		log.Error("Storage unavailable")
		h.println("Data file is unavailable.")
	default:
		log.Error("Unexpected error")
		h.printf("Unexpected error: %v\n", err)
	}
}

// noBookings prints "No bookings found." when no data file exists yet. It
// also returns true when the check itself failed and was reported.
func (h *ConsoleHandler) noBookings(ctx context.Context, operation string, log *zap.Logger) bool {
	exists, err := h.service.HasData(ctx)
	if err != nil {
		h.handleError(err, operation, log)
		return true
	}
	if !exists {
		h.println("No bookings found.")
		return true
	}
	return false
}

// parseAge accepts only values that fit the record's 32-bit age field.
func parseAge(text string) (int, error) {
	age, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: age %q", apperrors.ErrInvalidInput, text)
	}
	return int(age), nil
}

func (h *ConsoleHandler) printMenu() {
	h.println("\n" + h.titleStyle.Render("====== Railway Reservation System ======"))
	h.println("1. Book Ticket")
	h.println("2. Cancel Ticket")
	h.println("3. View All Bookings")
	h.println("4. Search by PNR")
	h.println("5. Show Available Seats")
	h.println("0. Exit")
	h.printf("Enter choice: ")
}

func (h *ConsoleHandler) printTicket(t *model.Ticket) {
	h.printf("PNR: %s\nName: %s\nAge: %d\nGender: %s\nSeat No: %d\n",
		t.PNR, t.Name, t.Age, t.Gender, t.SeatNo)
}

func (h *ConsoleHandler) prompt(label string) (string, error) {
	h.printf("%s", label)
	return h.readLine()
}

// readLine returns one line without its terminator. A final line without a
// newline is returned as is; io.EOF only when nothing is left.
func (h *ConsoleHandler) readLine() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (h *ConsoleHandler) finish(err error) error {
	if errors.Is(err, io.EOF) {
		h.println("\nGoodbye!")
		return nil
	}
	return err
}

func (h *ConsoleHandler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format, args...)
}

func (h *ConsoleHandler) println(s string) {
	fmt.Fprintln(h.out, s)
}
