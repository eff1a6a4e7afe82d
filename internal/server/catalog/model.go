// Package catalog holds the gym's public catalog and per-member
// subscriptions and bookings for the development API.
package catalog

import "time"

type Membership struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Tier         string   `json:"tier"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
}

type Workout struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Difficulty      string `json:"difficulty"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
}

type Trainer struct {
	ID              int64    `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Specialization  string   `json:"specialization"`
	ExperienceYears int      `json:"experience_years"`
	Bio             string   `json:"bio,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
}

type Class struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TrainerName string    `json:"trainer_name,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Capacity    int       `json:"capacity"`
	Enrolled    int       `json:"enrolled"`
}

type Subscription struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tier      string    `json:"tier"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Booking struct {
	ID          string    `json:"id"`
	BookingType string    `json:"booking_type"`
	ClassID     int64     `json:"class_id,omitempty"`
	ClassName   string    `json:"class_name,omitempty"`
	TrainerName string    `json:"trainer_name,omitempty"`
	BookingDate time.Time `json:"booking_date"`
	Status      string    `json:"status"`
}

// WorkoutFilter narrows Workouts. Empty fields match everything.
type WorkoutFilter struct {
	Difficulty string
	Category   string
}
