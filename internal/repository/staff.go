package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

// GetAllStaff 返回所有员工档案，含不可排班的星期几。
// 排班核心每次计算可用性之前都会调用它，不做缓存
func (r *Repository) GetAllStaff() ([]*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.id,
			s.name,
			s.email,
			s.phone,
			s.max_hours,
			s.created_at,
			s.version,
			suw.weekday
		FROM staff s
		LEFT JOIN staff_unavailable_weekdays suw ON s.id = suw.staff_id
		ORDER BY s.name, s.id, suw.weekday
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffMap := make(map[int64]*domain.Staff)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			Name      string
			Email     string
			Phone     string
			MaxHours  sql.NullFloat64
			CreatedAt time.Time
			Version   int32

			Weekday sql.NullInt32
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Email,
			&row.Phone,
			&row.MaxHours,
			&row.CreatedAt,
			&row.Version,
			&row.Weekday,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		member, exists := staffMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个员工，需要在 map 中初始化
			member = &domain.Staff{
				ID:                  row.ID,
				Name:                row.Name,
				Email:               row.Email,
				Phone:               row.Phone,
				UnavailableWeekdays: make([]int32, 0),
				CreatedAt:           row.CreatedAt,
				Version:             row.Version,
			}
			if row.MaxHours.Valid {
				member.MaxHours = &row.MaxHours.Float64
			}
			staffMap[row.ID] = member
			order = append(order, row.ID)
		}

		// 如果 weekday 为空，则表示这个员工每天都可以排班
		if !row.Weekday.Valid {
			continue
		}

		member.UnavailableWeekdays = append(member.UnavailableWeekdays, row.Weekday.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	staff := make([]*domain.Staff, 0, len(order))
	for _, id := range order {
		staff = append(staff, staffMap[id])
	}

	return staff, nil
}

func (r *Repository) GetStaffByID(id int64) (*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.name,
			s.email,
			s.phone,
			s.max_hours,
			s.created_at,
			s.version,
			suw.weekday
		FROM staff s
		LEFT JOIN staff_unavailable_weekdays suw ON s.id = suw.staff_id
		WHERE s.id = $1
		ORDER BY suw.weekday
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	member := &domain.Staff{
		ID:                  id,
		UnavailableWeekdays: make([]int32, 0),
	}
	found := false

	for rows.Next() {
		var row struct {
			Name      string
			Email     string
			Phone     string
			MaxHours  sql.NullFloat64
			CreatedAt time.Time
			Version   int32

			Weekday sql.NullInt32
		}

		dst := []any{&row.Name, &row.Email, &row.Phone, &row.MaxHours, &row.CreatedAt, &row.Version, &row.Weekday}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			member.Name = row.Name
			member.Email = row.Email
			member.Phone = row.Phone
			member.CreatedAt = row.CreatedAt
			member.Version = row.Version
			if row.MaxHours.Valid {
				member.MaxHours = &row.MaxHours.Float64
			}
			found = true
		}

		if !row.Weekday.Valid {
			continue
		}

		member.UnavailableWeekdays = append(member.UnavailableWeekdays, row.Weekday.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return member, nil
}

func (r *Repository) CreateStaff(member *domain.Staff) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO staff (name, email, phone, max_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{member.Name, member.Email, member.Phone, member.MaxHours}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&member.ID, &member.CreatedAt, &member.Version); err != nil {
		return err
	}

	for _, day := range member.UnavailableWeekdays {
		query = `
			INSERT INTO staff_unavailable_weekdays (staff_id, weekday)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, member.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateStaff(member *domain.Staff) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE staff
		SET
			name = $1,
			email = $2,
			phone = $3,
			max_hours = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	args := []any{member.Name, member.Email, member.Phone, member.MaxHours, member.ID, member.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&member.Version); err != nil {
		return err
	}

	// 不可排班的星期几整组重写，避免逐条对比
	query = `DELETE FROM staff_unavailable_weekdays WHERE staff_id = $1`
	if _, err := tx.ExecContext(ctx, query, member.ID); err != nil {
		return err
	}

	for _, day := range member.UnavailableWeekdays {
		query = `
			INSERT INTO staff_unavailable_weekdays (staff_id, weekday)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, member.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStaff(id int64) error {
	query := `
		DELETE FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
