package services

import (
	"context"
	"fmt"
)

// SeedSampleEvents loads a demo event catalog when the events table is
// empty, so a fresh install has something to browse. No-op otherwise.
func (s *EventService) SeedSampleEvents(ctx context.Context, adminID int64) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	samples := []CreateEventInput{
		{
			Title:       "Tech Fest 2025",
			Description: "Annual technology festival featuring coding competitions, AI workshops, robotics demonstrations, and keynote speeches from industry leaders.",
			Date:        "2025-01-15", StartTime: "09:00",
			Venue: "Main Auditorium", Capacity: 500, Category: "technology",
		},
		{
			Title:       "Cultural Night 2025",
			Description: "A vibrant celebration of diversity through music, dance, drama, and art performances.",
			Date:        "2025-02-14", StartTime: "18:00",
			Venue: "College Amphitheater", Capacity: 1000, Category: "cultural",
		},
		{
			Title:       "Career Fair 2025",
			Description: "Meet with top companies and explore exciting career opportunities. Network with recruiters and learn about the latest industry trends.",
			Date:        "2025-01-25", StartTime: "10:00",
			Venue: "Sports Complex", Capacity: 300, Category: "career",
		},
		{
			Title:       "Inter-College Sports Meet",
			Description: "Annual sports tournament featuring cricket, football, basketball, tennis, and track events.",
			Date:        "2025-03-05", StartTime: "08:00",
			Venue: "Sports Ground", Capacity: 800, Category: "sports",
		},
		{
			Title:       "Science Exhibition",
			Description: "Showcase of innovative science projects, research presentations, and interactive experiments.",
			Date:        "2025-02-20", StartTime: "10:00",
			Venue: "Science Building", Capacity: 400, Category: "academic",
		},
		{
			Title:       "Entrepreneurship Summit",
			Description: "Learn from successful entrepreneurs, attend pitch sessions, and discover how to turn your ideas into successful businesses.",
			Date:        "2025-03-12", StartTime: "09:30",
			Venue: "Conference Hall", Capacity: 200, Category: "career",
		},
	}

	for _, sample := range samples {
		sample.CreatedBy = adminID
		if _, err := s.Create(ctx, sample); err != nil {
			return 0, fmt.Errorf("seed %q: %w", sample.Title, err)
		}
	}
	return len(samples), nil
}
