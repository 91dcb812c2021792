package entity

type Cinema struct {
	Base
	Name string `db:"name"`
	City string `db:"city"`
}
