package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	"github.com/m04kA/ABS-SchedulingCore/pkg/psqlbuilder"
	"github.com/m04kA/ABS-SchedulingCore/pkg/txmanager"
)

// Repository репозиторий справочника: локации, услуги, сотрудники
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочника
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetLocation получает локацию по ID
func (r *Repository) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "address", "phone", "timezone", "created_at", "updated_at",
	).
		From("locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - build select query: %v", ErrBuildQuery, err)
	}

	var loc domain.Location
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID, &loc.Name, &loc.Address, &loc.Phone, &loc.Timezone,
		&loc.CreatedAt, &loc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - scan location: %v", ErrScanRow, err)
	}
	return &loc, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id string) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := serviceSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	svc, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}
	return svc, nil
}

// ListActiveServices получает все активные услуги.
// Опционально фильтрует по локации.
func (r *Repository) ListActiveServices(ctx context.Context, locationID *string) ([]*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := serviceSelect().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC")

	if locationID != nil {
		selectBuilder = selectBuilder.Where("location_ids @> ?", pq.Array([]string{*locationID}))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - rows error: %v", ErrScanRow, err)
	}
	return services, nil
}

// GetStaff получает сотрудника по ID
func (r *Repository) GetStaff(ctx context.Context, id string) (*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := staffSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	st, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}
	return st, nil
}

// ListStaffForService получает сотрудников, квалифицированных для услуги
// и закрепленных за локацией
func (r *Repository) ListStaffForService(ctx context.Context, serviceID, locationID string) ([]*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := staffSelect().
		Where("service_ids @> ?", pq.Array([]string{serviceID})).
		Where("location_ids @> ?", pq.Array([]string{locationID})).
		OrderBy("full_name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffForService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffForService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.Staff, 0)
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStaffForService - scan row: %v", ErrScanRow, err)
		}
		staff = append(staff, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffForService - rows error: %v", ErrScanRow, err)
	}
	return staff, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func serviceSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id", "name", "category", "price", "duration_minutes",
		"max_capacity", "is_active", "location_ids", "created_at", "updated_at",
	).From("services")
}

func scanService(row rowScanner) (*domain.Service, error) {
	var svc domain.Service
	err := row.Scan(
		&svc.ID, &svc.Name, &svc.Category, &svc.Price, &svc.DurationMinutes,
		&svc.MaxCapacity, &svc.IsActive, pq.Array(&svc.LocationIDs),
		&svc.CreatedAt, &svc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func staffSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id", "full_name", "location_ids", "service_ids", "specialties",
		"created_at", "updated_at",
	).From("staff")
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var st domain.Staff
	err := row.Scan(
		&st.ID, &st.FullName, pq.Array(&st.LocationIDs), pq.Array(&st.ServiceIDs),
		pq.Array(&st.Specialties), &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
