package catalog

import "time"

func defaultMemberships() []Membership {
	return []Membership{
		{ID: 1, Name: "Essential", Tier: "basic", Price: 49, DurationDays: 30,
			Description: "Gym floor access during staffed hours.",
			Features:    []string{"Gym floor", "Locker room"}},
		{ID: 2, Name: "Premium", Tier: "premium", Price: 89, DurationDays: 30,
			Description: "Unlimited group classes and 24/7 access.",
			Features:    []string{"24/7 access", "Group classes", "Sauna"}},
		{ID: 3, Name: "Elite", Tier: "elite", Price: 149, DurationDays: 30,
			Description: "Everything in Premium plus personal training.",
			Features:    []string{"Everything in Premium", "4 PT sessions", "Nutrition plan"}},
	}
}

func defaultWorkouts() []Workout {
	return []Workout{
		{ID: 1, Name: "Foundations", Difficulty: "beginner", Category: "strength", DurationMinutes: 40},
		{ID: 2, Name: "HIIT Blast", Difficulty: "advanced", Category: "cardio", DurationMinutes: 30},
		{ID: 3, Name: "Mobility Flow", Difficulty: "beginner", Category: "flexibility", DurationMinutes: 25},
		{ID: 4, Name: "Power Lifts", Difficulty: "intermediate", Category: "strength", DurationMinutes: 60},
		{ID: 5, Name: "Endurance Ride", Difficulty: "intermediate", Category: "cardio", DurationMinutes: 45},
	}
}

func defaultTrainers() []Trainer {
	return []Trainer{
		{ID: 1, FirstName: "Marcus", LastName: "Reid", Specialization: "Strength & Conditioning", ExperienceYears: 9,
			Certifications: []string{"NSCA-CSCS"}},
		{ID: 2, FirstName: "Lena", LastName: "Ortiz", Specialization: "Yoga & Mobility", ExperienceYears: 6,
			Certifications: []string{"RYT-500"}},
		{ID: 3, FirstName: "Sam", LastName: "Okafor", Specialization: "HIIT", ExperienceYears: 4},
	}
}

// defaultClasses schedules a week of classes relative to now, plus one
// that has already taken place.
func defaultClasses(now time.Time) []Class {
	day := now.Truncate(24 * time.Hour)
	at := func(days, hour int) time.Time {
		return day.Add(time.Duration(days)*24*time.Hour + time.Duration(hour)*time.Hour)
	}
	return []Class{
		{ID: 1, Name: "Morning Spin", TrainerName: "Sam Okafor", Location: "Studio B",
			StartTime: at(-1, 7), EndTime: at(-1, 7).Add(45 * time.Minute), Capacity: 20, Enrolled: 20},
		{ID: 2, Name: "Power Yoga", TrainerName: "Lena Ortiz", Location: "Studio A",
			StartTime: at(1, 18), EndTime: at(1, 19), Capacity: 15, Enrolled: 9},
		{ID: 3, Name: "Barbell Basics", TrainerName: "Marcus Reid", Location: "Main floor",
			StartTime: at(2, 17), EndTime: at(2, 17).Add(50 * time.Minute), Capacity: 10, Enrolled: 4},
		{ID: 4, Name: "HIIT 30", TrainerName: "Sam Okafor", Location: "Studio B",
			StartTime: at(3, 12), EndTime: at(3, 12).Add(30 * time.Minute), Capacity: 2, Enrolled: 1},
	}
}
