package request

type ScheduleShowRequest struct {
	TheaterID       int64  `json:"theater_id" validate:"required,min=1"`
	MovieID         int64  `json:"movie_id" validate:"required,min=1"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" validate:"required,datetime=15:04:05"`
	DurationSeconds int64  `json:"duration_seconds,omitempty" validate:"omitempty,min=1,max=86400"`
}

type RemoveShowsRequest struct {
	Date    string `validate:"required,datetime=2006-01-02"`
	Cascade bool
}
