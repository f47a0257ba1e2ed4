package model

import "time"

type Course struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Address      string    `db:"address" json:"address"`
	City         string    `db:"city" json:"city"`
	State        string    `db:"state" json:"state"`
	Country      string    `db:"country" json:"country"`
	Phone        string    `db:"phone" json:"phone"`
	Website      string    `db:"website" json:"website"`
	Latitude     float64   `db:"latitude" json:"latitude"`
	Longitude    float64   `db:"longitude" json:"longitude"`
	TotalHoles   int       `db:"total_holes" json:"total_holes"`
	ParTotal     int       `db:"par_total" json:"par_total"`
	CourseRating *float64  `db:"course_rating" json:"course_rating"`
	SlopeRating  *int      `db:"slope_rating" json:"slope_rating"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	Holes         []*Hole  `db:"-" json:"holes,omitempty"`
	DistanceMiles *float64 `db:"-" json:"distance_miles,omitempty"`
}

type Hole struct {
	ID           string   `db:"id" json:"id"`
	CourseID     string   `db:"course_id" json:"course_id"`
	HoleNumber   int      `db:"hole_number" json:"hole_number"`
	Par          int      `db:"par" json:"par"`
	Yardage      int      `db:"yardage" json:"yardage"`
	StrokeIndex  *int     `db:"stroke_index" json:"stroke_index"`
	TeeLatitude  *float64 `db:"tee_latitude" json:"tee_latitude"`
	TeeLongitude *float64 `db:"tee_longitude" json:"tee_longitude"`
	PinLatitude  *float64 `db:"pin_latitude" json:"pin_latitude"`
	PinLongitude *float64 `db:"pin_longitude" json:"pin_longitude"`
	Description  string   `db:"description" json:"description"`
	Tips         string   `db:"tips" json:"tips"`
}

func (h *Hole) HasPin() bool {
	return h.PinLatitude != nil && h.PinLongitude != nil
}

func (h *Hole) HasTee() bool {
	return h.TeeLatitude != nil && h.TeeLongitude != nil
}
