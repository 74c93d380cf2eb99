package get_available_slots

import (
	"fmt"
	"net/url"
	"time"

	getAvailableSlots "github.com/m04kA/ABS-SchedulingCore/internal/usecase/get_available_slots"
)

const dateLayout = "2006-01-02"

// ParseQuery разбирает query-параметры запроса свободных слотов.
// date обязателен в формате YYYY-MM-DD, staffId опционален.
func ParseQuery(locationID, serviceID string, query url.Values) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(dateLayout, query.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	req := &getAvailableSlots.Request{
		LocationID: locationID,
		ServiceID:  serviceID,
		Date:       date,
	}

	if staffID := query.Get("staffId"); staffID != "" {
		req.StaffID = &staffID
	}

	return req, nil
}
