package models

import "time"

// Membership is a purchasable membership plan.
type Membership struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Tier         string   `json:"tier"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
}

// Workout is a catalog workout program.
type Workout struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Difficulty      string `json:"difficulty"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
}

// WorkoutFilter narrows the workout listing. Empty fields are not sent.
type WorkoutFilter struct {
	Difficulty string
	Category   string
}

// Trainer is a staff trainer profile.
type Trainer struct {
	ID              int64    `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Specialization  string   `json:"specialization"`
	ExperienceYears int      `json:"experience_years"`
	Bio             string   `json:"bio,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
}

// Class is a scheduled group class.
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

// Duration returns the scheduled length of the class.
func (c Class) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// Subscription is the caller's active membership.
type Subscription struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tier      string    `json:"tier"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Booking is a class or personal-training reservation.
type Booking struct {
	ID          string    `json:"id"`
	BookingType string    `json:"booking_type"`
	ClassName   string    `json:"class_name,omitempty"`
	TrainerName string    `json:"trainer_name,omitempty"`
	BookingDate time.Time `json:"booking_date"`
	Status      string    `json:"status"`
}

// NoMembershipTier is shown as the tier when there is no active subscription.
const NoMembershipTier = "None"

// Dashboard aggregates the protected per-user panels. The counts cover every
// booking, while Bookings holds only the most recent ones.
type Dashboard struct {
	User         *User
	Subscription *Subscription
	Bookings     []Booking

	TotalBookings     int
	CompletedBookings int
	MembershipTier    string
}
