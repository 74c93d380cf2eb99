package get_staff_agenda

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings/models"
)

// ParseQuery разбирает query-параметры запроса расписания.
// from и to ожидаются в формате ISO 8601, includeInactive - булев флаг.
func ParseQuery(staffID string, query url.Values) (*models.GetAgendaRequest, error) {
	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("parse from: %w", err)
	}

	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("parse to: %w", err)
	}

	includeInactive := false
	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse includeInactive: %w", err)
		}
	}

	return &models.GetAgendaRequest{
		StaffID:         staffID,
		From:            from,
		To:              to,
		IncludeInactive: includeInactive,
	}, nil
}
