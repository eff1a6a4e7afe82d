package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrClassFull     = errors.New("class is full")
	ErrClassStarted  = errors.New("class has already started")
	ErrAlreadyBooked = errors.New("class already booked")
)

// Store is the in-memory catalog plus member state. It is safe for
// concurrent use.
type Store struct {
	now func() time.Time

	memberships []Membership
	workouts    []Workout
	trainers    []Trainer

	mu            sync.Mutex
	classes       []Class
	subscriptions map[int64]*Subscription
	bookings      map[int64][]Booking
	nextSubID     int64
}

// NewStore returns a store seeded with the default catalog. now is the
// clock; nil means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:           now,
		memberships:   defaultMemberships(),
		workouts:      defaultWorkouts(),
		trainers:      defaultTrainers(),
		classes:       defaultClasses(now()),
		subscriptions: make(map[int64]*Subscription),
		bookings:      make(map[int64][]Booking),
	}
}

func (s *Store) Memberships() []Membership {
	return append([]Membership(nil), s.memberships...)
}

func (s *Store) Workouts(f WorkoutFilter) []Workout {
	out := make([]Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		if f.Difficulty != "" && !strings.EqualFold(w.Difficulty, f.Difficulty) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(w.Category, f.Category) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (s *Store) Trainers() []Trainer {
	return append([]Trainer(nil), s.trainers...)
}

// Classes lists classes by start time. With upcoming set, classes that have
// already started are left out.
func (s *Store) Classes(upcoming bool) []Class {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]Class, 0, len(s.classes))
	for _, c := range s.classes {
		if upcoming && !c.StartTime.After(now) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Subscribe makes membershipID the user's active membership, replacing any
// previous one.
func (s *Store) Subscribe(userID, membershipID int64) (*Subscription, error) {
	var plan *Membership
	for i := range s.memberships {
		if s.memberships[i].ID == membershipID {
			plan = &s.memberships[i]
			break
		}
	}
	if plan == nil {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now().UTC()
	s.nextSubID++
	sub := &Subscription{
		ID:        s.nextSubID,
		Name:      plan.Name,
		Tier:      plan.Tier,
		Status:    "active",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, plan.DurationDays),
	}
	s.subscriptions[userID] = sub

	out := *sub
	return &out, nil
}

// Subscription returns the user's active membership or nil.
func (s *Store) Subscription(userID int64) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[userID]
	if !ok {
		return nil
	}
	if sub.EndDate.Before(s.now()) {
		return nil
	}
	out := *sub
	return &out
}

// Book reserves a place in an upcoming class.
func (s *Store) Book(userID, classID int64) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.classes {
		if s.classes[i].ID == classID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	c := &s.classes[idx]

	for _, b := range s.bookings[userID] {
		if b.ClassID == classID && b.Status == "confirmed" {
			return nil, ErrAlreadyBooked
		}
	}
	now := s.now()
	switch {
	case !c.StartTime.After(now):
		return nil, ErrClassStarted
	case c.Enrolled >= c.Capacity:
		return nil, ErrClassFull
	}

	c.Enrolled++
	b := Booking{
		ID:          newID(),
		BookingType: "class",
		ClassID:     c.ID,
		ClassName:   c.Name,
		TrainerName: c.TrainerName,
		BookingDate: c.StartTime,
		Status:      "confirmed",
	}
	s.bookings[userID] = append(s.bookings[userID], b)
	return &b, nil
}

// addPersonalTraining records a one-to-one session. Used for demo data.
func (s *Store) addPersonalTraining(userID int64, trainer string, at time.Time, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings[userID] = append(s.bookings[userID], Booking{
		ID:          newID(),
		BookingType: "personal_training",
		TrainerName: trainer,
		BookingDate: at,
		Status:      status,
	})
}

// Bookings lists the user's bookings, most recent first.
func (s *Store) Bookings(userID int64) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]Booking(nil), s.bookings[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out
}

// SeedMember gives userID a membership and a few bookings so the dashboard
// has something to show.
func (s *Store) SeedMember(userID int64) error {
	if _, err := s.Subscribe(userID, 2); err != nil {
		return err
	}
	for _, c := range s.Classes(true) {
		if _, err := s.Book(userID, c.ID); err == nil {
			break
		}
	}
	now := s.now()
	s.addPersonalTraining(userID, "Marcus Reid", now.Add(-72*time.Hour), "completed")
	s.addPersonalTraining(userID, "Lena Ortiz", now.Add(96*time.Hour), "confirmed")
	return nil
}
