package adaptor

import (
	"cinema-ticketing/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Movie   *MovieHandler
	Show    *ShowHandler
	Booking *BookingHandler
	Report  *ReportHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Movie:   NewMovieHandler(service.Movie, log),
		Show:    NewShowHandler(service.Schedule, service.Inventory, log),
		Booking: NewBookingHandler(service.Booking, service.Inventory, log),
		Report:  NewReportHandler(service.Report, log),
	}
}
