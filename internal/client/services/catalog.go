package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/fitclub/internal/client/models"
)

// DashboardBookings is how many bookings the dashboard shows.
const DashboardBookings = 5

// BookingCompleted is the status of a booking that has taken place.
const BookingCompleted = "completed"

// CatalogGateway is the subset of the API used by CatalogService.
type CatalogGateway interface {
	Memberships(ctx context.Context) ([]models.Membership, error)
	Subscribe(ctx context.Context, membershipID int64) error
	Workouts(ctx context.Context, f models.WorkoutFilter) ([]models.Workout, error)
	Trainers(ctx context.Context) ([]models.Trainer, error)
	Classes(ctx context.Context, upcoming bool) ([]models.Class, error)
	MySubscription(ctx context.Context) (*models.Subscription, error)
	MyBookings(ctx context.Context) ([]models.Booking, error)
}

// SessionReader exposes the current session state.
type SessionReader interface {
	Current() models.AuthState
}

// CatalogService serves the public catalog and the per-user dashboard.
// It never touches credentials: the gateway attaches them.
type CatalogService struct {
	gw      CatalogGateway
	session SessionReader
}

func NewCatalogService(gw CatalogGateway, session SessionReader) *CatalogService {
	return &CatalogService{gw: gw, session: session}
}

func (c *CatalogService) Memberships(ctx context.Context) ([]models.Membership, error) {
	return c.gw.Memberships(ctx)
}

func (c *CatalogService) Workouts(ctx context.Context, f models.WorkoutFilter) ([]models.Workout, error) {
	return c.gw.Workouts(ctx, f)
}

func (c *CatalogService) Trainers(ctx context.Context) ([]models.Trainer, error) {
	return c.gw.Trainers(ctx)
}

// UpcomingClasses lists classes that have not started yet.
func (c *CatalogService) UpcomingClasses(ctx context.Context) ([]models.Class, error) {
	return c.gw.Classes(ctx, true)
}

// Subscribe enrolls the signed-in user in a membership plan.
func (c *CatalogService) Subscribe(ctx context.Context, membershipID int64) error {
	if !c.session.Current().IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := c.gw.Subscribe(ctx, membershipID); err != nil {
		return fmt.Errorf("subscribe to membership %d: %w", membershipID, err)
	}
	return nil
}

// Dashboard fetches the signed-in user's subscription and bookings
// concurrently. Booking counts are taken over the full list, then only the
// first DashboardBookings bookings are kept.
func (c *CatalogService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	st := c.session.Current()
	if !st.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	d := &models.Dashboard{User: st.User}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sub, err := c.gw.MySubscription(gctx)
		if err != nil {
			return fmt.Errorf("fetch subscription: %w", err)
		}
		d.Subscription = sub
		return nil
	})
	g.Go(func() error {
		bookings, err := c.gw.MyBookings(gctx)
		if err != nil {
			return fmt.Errorf("fetch bookings: %w", err)
		}
		d.TotalBookings = len(bookings)
		for _, b := range bookings {
			if b.Status == BookingCompleted {
				d.CompletedBookings++
			}
		}
		if len(bookings) > DashboardBookings {
			bookings = bookings[:DashboardBookings]
		}
		d.Bookings = bookings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.MembershipTier = models.NoMembershipTier
	if d.Subscription != nil && d.Subscription.Tier != "" {
		d.MembershipTier = d.Subscription.Tier
	}
	return d, nil
}
