package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitclub/internal/client/models"
)

const timeLayout = "Mon Jan 2 15:04"

// errUsage is returned for malformed command arguments.
var errUsage = errors.New("usage")

func (a *App) Memberships(ctx context.Context) error {
	ms, err := a.catalog.Memberships(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if len(ms) == 0 {
		fmt.Fprintln(a.out, "No membership plans available.")
		return nil
	}

	t := newTable("ID", "Plan", "Tier", "Price", "Days")
	for _, m := range ms {
		t.Row(strconv.FormatInt(m.ID, 10), m.Name, m.Tier, fmt.Sprintf("$%.2f", m.Price), strconv.Itoa(m.DurationDays))
	}
	fmt.Fprintln(a.out, t.Render())
	fmt.Fprintln(a.out, hintStyle.Render("Use 'subscribe <id>' to join a plan."))
	return nil
}

// Subscribe enrolls the user in the plan given as the first argument.
func (a *App) Subscribe(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: subscribe <membership id>")
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintln(a.out, "Usage: subscribe <membership id>")
		return errUsage
	}

	return a.requireAuth(ctx, func(ctx context.Context) error {
		if err := a.catalog.Subscribe(ctx, id); err != nil {
			a.report(err)
			return err
		}
		fmt.Fprintln(a.out, titleStyle.Render("Subscribed! See 'dashboard' for details."))
		return nil
	})
}

// parseWorkoutFilter accepts "difficulty=x" and "category=y" arguments.
func parseWorkoutFilter(args []string) (models.WorkoutFilter, error) {
	var f models.WorkoutFilter
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || v == "" {
			return f, fmt.Errorf("%w: %q is not key=value", errUsage, arg)
		}
		switch strings.ToLower(k) {
		case "difficulty":
			f.Difficulty = v
		case "category":
			f.Category = v
		default:
			return f, fmt.Errorf("%w: unknown filter %q", errUsage, k)
		}
	}
	return f, nil
}

func (a *App) Workouts(ctx context.Context, args []string) error {
	f, err := parseWorkoutFilter(args)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: workouts [difficulty=<level>] [category=<name>]")
		return err
	}

	ws, err := a.catalog.Workouts(ctx, f)
	if err != nil {
		a.report(err)
		return err
	}
	if len(ws) == 0 {
		fmt.Fprintln(a.out, "No workouts match.")
		return nil
	}

	t := newTable("ID", "Workout", "Difficulty", "Category", "Minutes")
	for _, w := range ws {
		t.Row(strconv.FormatInt(w.ID, 10), w.Name, w.Difficulty, w.Category, strconv.Itoa(w.DurationMinutes))
	}
	fmt.Fprintln(a.out, t.Render())
	return nil
}

func (a *App) Trainers(ctx context.Context) error {
	ts, err := a.catalog.Trainers(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if len(ts) == 0 {
		fmt.Fprintln(a.out, "No trainers listed.")
		return nil
	}

	t := newTable("Trainer", "Specialization", "Experience")
	for _, tr := range ts {
		t.Row(tr.FirstName+" "+tr.LastName, tr.Specialization, fmt.Sprintf("%d yrs", tr.ExperienceYears))
	}
	fmt.Fprintln(a.out, t.Render())
	return nil
}

func (a *App) Classes(ctx context.Context) error {
	cs, err := a.catalog.UpcomingClasses(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if len(cs) == 0 {
		fmt.Fprintln(a.out, "No upcoming classes.")
		return nil
	}

	t := newTable("Class", "Trainer", "Starts", "Length", "Spots")
	for _, c := range cs {
		t.Row(c.Name, c.TrainerName, c.StartTime.Local().Format(timeLayout),
			c.Duration().Round(time.Minute).String(), fmt.Sprintf("%d/%d", c.Enrolled, c.Capacity))
	}
	fmt.Fprintln(a.out, t.Render())
	return nil
}

// Dashboard shows the signed-in user's profile, subscription and latest
// bookings.
func (a *App) Dashboard(ctx context.Context) error {
	return a.requireAuth(ctx, func(ctx context.Context) error {
		d, err := a.catalog.Dashboard(ctx)
		if err != nil {
			a.report(err)
			return err
		}
		a.printDashboard(d)
		return nil
	})
}

func (a *App) printDashboard(d *models.Dashboard) {
	u := d.User
	if u == nil {
		u = &models.User{}
	}
	fmt.Fprintln(a.out, titleStyle.Render(fmt.Sprintf("Welcome back, %s!", u.FirstName)))

	fmt.Fprintln(a.out, "Profile")
	fmt.Fprintf(a.out, "  Name:  %s\n  Email: %s\n", u.FullName(), u.Email)
	if u.Phone != "" {
		fmt.Fprintf(a.out, "  Phone: %s\n", u.Phone)
	}
	fmt.Fprintf(a.out, "  Role:  %s\n", u.Role)

	fmt.Fprintln(a.out, "Membership")
	if s := d.Subscription; s != nil {
		fmt.Fprintf(a.out, "  %s (%s), %s until %s\n", s.Name, s.Tier, s.Status, s.EndDate.Format("Jan 2, 2006"))
	} else {
		fmt.Fprintln(a.out, hintStyle.Render("  No active membership. Use 'memberships' to browse plans."))
	}

	fmt.Fprintln(a.out, "Quick stats")
	tier := d.MembershipTier
	if tier == "" {
		tier = models.NoMembershipTier
	}
	fmt.Fprintf(a.out, "  Total bookings: %d\n  Completed:      %d\n  Membership tier: %s\n",
		d.TotalBookings, d.CompletedBookings, tier)

	fmt.Fprintln(a.out, "Recent bookings")
	if len(d.Bookings) == 0 {
		fmt.Fprintln(a.out, hintStyle.Render("  No bookings yet."))
		return
	}
	t := newTable("Type", "What", "When", "Status")
	for _, b := range d.Bookings {
		what := b.ClassName
		if what == "" {
			what = b.TrainerName
		}
		t.Row(b.BookingType, what, b.BookingDate.Local().Format(timeLayout), b.Status)
	}
	fmt.Fprintln(a.out, t.Render())
}
