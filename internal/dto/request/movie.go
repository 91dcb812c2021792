package request

type CreateMovieRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=200"`
	ReleaseDate     string `json:"release_date" validate:"required,datetime=2006-01-02"`
	DurationSeconds int64  `json:"duration_seconds" validate:"required,min=1,max=86400"`
	Language        string `json:"language,omitempty" validate:"omitempty,max=50"`
}

type MoviesByTitleRequest struct {
	Title         string `validate:"required,max=200"`
	ReleasedAfter string `validate:"required,datetime=2006-01-02"`
}
