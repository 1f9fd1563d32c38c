package repository

import (
	"context"
	"time"

	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

// CreateRoster 在一个事务中写入排班表头和所有值班记录。
// duties 中的 StaffName 是归档时刻的姓名快照
func (r *Repository) CreateRoster(roster *domain.Roster, duties []*domain.RosterDuty) error {
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
		INSERT INTO rosters (start_date, end_date, pdf_file)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{roster.StartDate, roster.EndDate, roster.PDFFile}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&roster.ID, &roster.CreatedAt, &roster.Version); err != nil {
		return err
	}

	for _, duty := range duties {
		query = `
			INSERT INTO roster_duties (roster_id, duty_date, staff_id, staff_name, start_time, end_time, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		args = []any{roster.ID, duty.DutyDate, duty.StaffID, duty.StaffName, duty.StartTime, duty.EndTime, duty.Note}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&duty.ID); err != nil {
			return err
		}
		duty.RosterID = roster.ID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetAllRosters 返回归档历史，最新的排在最前面
func (r *Repository) GetAllRosters() ([]*domain.Roster, error) {
	query := `
		SELECT id, start_date, end_date, pdf_file, created_at, version
		FROM rosters
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rosters := make([]*domain.Roster, 0)
	for rows.Next() {
		roster := &domain.Roster{}
		dst := []any{&roster.ID, &roster.StartDate, &roster.EndDate, &roster.PDFFile, &roster.CreatedAt, &roster.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rosters = append(rosters, roster)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rosters, nil
}

func (r *Repository) GetRosterByID(id int64) (*domain.Roster, error) {
	query := `
		SELECT start_date, end_date, pdf_file, created_at, version
		FROM rosters
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	roster := &domain.Roster{ID: id}
	dst := []any{&roster.StartDate, &roster.EndDate, &roster.PDFFile, &roster.CreatedAt, &roster.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return roster, nil
}

func (r *Repository) GetRosterDuties(rosterID int64) ([]*domain.RosterDuty, error) {
	query := `
		SELECT id, duty_date, staff_id, staff_name, start_time, end_time, note
		FROM roster_duties
		WHERE roster_id = $1
		ORDER BY duty_date, start_time, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	duties := make([]*domain.RosterDuty, 0)
	for rows.Next() {
		duty := &domain.RosterDuty{RosterID: rosterID}
		dst := []any{&duty.ID, &duty.DutyDate, &duty.StaffID, &duty.StaffName, &duty.StartTime, &duty.EndTime, &duty.Note}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		duties = append(duties, duty)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return duties, nil
}

// GetLatestRosterDuties 返回最近一次归档的所有值班记录，
// 归档前用来判断是否在重复提交完全相同的排班表。
// 数据库为空时返回空切片
func (r *Repository) GetLatestRosterDuties() ([]*domain.RosterDuty, error) {
	query := `
		SELECT rd.id, rd.roster_id, rd.duty_date, rd.staff_id, rd.staff_name, rd.start_time, rd.end_time, rd.note
		FROM roster_duties rd
		WHERE rd.roster_id = (
			SELECT id FROM rosters ORDER BY created_at DESC, id DESC LIMIT 1
		)
		ORDER BY rd.duty_date, rd.start_time, rd.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	duties := make([]*domain.RosterDuty, 0)
	for rows.Next() {
		duty := &domain.RosterDuty{}
		dst := []any{&duty.ID, &duty.RosterID, &duty.DutyDate, &duty.StaffID, &duty.StaffName, &duty.StartTime, &duty.EndTime, &duty.Note}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		duties = append(duties, duty)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return duties, nil
}

// UpdateRosterPDF 在 PDF 渲染完成后回填文件路径
func (r *Repository) UpdateRosterPDF(roster *domain.Roster) error {
	query := `
		UPDATE rosters
		SET pdf_file = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{roster.PDFFile, roster.ID, roster.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&roster.Version); err != nil {
		return err
	}

	return nil
}
