package domain

import "time"

// Location represents a physical service point with its own IANA timezone
type Location struct {
	ID       string
	Name     string
	Address  string
	Phone    string
	Timezone string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service represents a bookable service offered at one or more locations
type Service struct {
	ID              string
	Name            string
	Category        string
	Price           float64
	DurationMinutes int
	MaxCapacity     int
	IsActive        bool
	LocationIDs     []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration returns the service duration as a time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// IsOfferedAt returns true if the service is offered at the given location
func (s *Service) IsOfferedAt(locationID string) bool {
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// IsCapacityLimited returns true if more than one concurrent booking is allowed
// for this service at a location
func (s *Service) IsCapacityLimited() bool {
	return s.MaxCapacity > 1
}

// Staff represents a staff member qualified for a set of services
type Staff struct {
	ID          string
	FullName    string
	LocationIDs []string
	ServiceIDs  []string
	Specialties []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsQualifiedFor returns true if the staff member is qualified for the service
func (st *Staff) IsQualifiedFor(serviceID string) bool {
	for _, id := range st.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// WorksAt returns true if the staff member is assigned to the location
func (st *Staff) WorksAt(locationID string) bool {
	for _, id := range st.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}
