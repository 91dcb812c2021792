package request

type CreateBookingRequest struct {
	UserID    int64  `json:"user_id" validate:"required,min=1"`
	ShowID    int64  `json:"show_id" validate:"required,min=1"`
	SeatCount int    `json:"seat_count" validate:"required,min=1,max=1000"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=Pending Paid"`
}

type SwapSeatRequest struct {
	From string `json:"from" validate:"required,max=16"`
	To   string `json:"to" validate:"required,max=16"`
}
