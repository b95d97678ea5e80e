package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/repository"
	"github.com/iliyamo/flight-seat-reservation/internal/seating"
	"github.com/iliyamo/flight-seat-reservation/internal/utils"
)

// InvalidCredentialsMessage is shown when an admin login fails.
const InvalidCredentialsMessage = "Invalid credentials. Please try again."

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password; callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Report is the admin dashboard payload.
type Report struct {
	Chart        seating.Chart       `json:"seating_data"`
	TotalRevenue int                 `json:"total_sales"`
	Occupied     int                 `json:"occupied"`
	Free         int                 `json:"free"`
	Reservations []model.Reservation `json:"reservations"`
}

// AdminService authenticates admins and computes the occupancy report.
type AdminService struct {
	admins       AdminStore
	reservations ReservationStore
	jwtSecret    string
	tokenTTLMin  int
}

func NewAdminService(admins AdminStore, reservations ReservationStore, jwtSecret string, tokenTTLMin int) *AdminService {
	if admins == nil || reservations == nil {
		panic("nil store passed to NewAdminService")
	}
	return &AdminService{admins: admins, reservations: reservations, jwtSecret: jwtSecret, tokenTTLMin: tokenTTLMin}
}

// Login checks the password against the stored bcrypt hash and returns a
// signed ADMIN access token.
func (s *AdminService) Login(ctx context.Context, username, password string) (utils.AccessToken, error) {
	if username == "" || password == "" {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	a, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return utils.AccessToken{}, ErrInvalidCredentials
		}
		return utils.AccessToken{}, fmt.Errorf("load admin: %w", err)
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	return utils.NewAccessToken(s.jwtSecret, a.Username, utils.RoleAdmin, s.tokenTTLMin)
}

// Report reads every reservation and derives the chart and total revenue.
// Nothing is cached between calls.
func (s *AdminService) Report(ctx context.Context) (Report, error) {
	all, err := s.reservations.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list reservations: %w", err)
	}
	seats := make([]seating.Seat, 0, len(all))
	total := 0
	for _, r := range all {
		p, err := seating.Price(r.SeatColumn)
		if err != nil {
			return Report{}, fmt.Errorf("reservation %d: %w", r.ID, err)
		}
		total += p
		seats = append(seats, seating.Seat{Row: r.SeatRow, Col: r.SeatColumn})
	}
	chart, err := seating.Build(seats)
	if err != nil {
		return Report{}, err
	}
	if all == nil {
		all = []model.Reservation{}
	}
	return Report{
		Chart:        chart,
		TotalRevenue: total,
		Occupied:     chart.OccupiedCount(),
		Free:         chart.FreeCount(),
		Reservations: all,
	}, nil
}
