package repo

import (
	"context"
	"database/sql"
	"fmt"

	"weekplan/internal/domain"
	"weekplan/internal/store"
)

const objectiveColumns = `id,product_id,week_id,title,progress,position,is_urgent,is_important,category,target_date,flagged,flag_note,created_at,updated_at`

func scanObjective(scan func(dest ...any) error) (domain.Objective, error) {
	var o domain.Objective
	var category string
	var targetDate, flagNote sql.NullString
	var flagged bool
	err := scan(&o.ID, &o.ProductID, &o.WeekID, &o.Title, &o.Progress, &o.Position,
		&o.IsUrgent, &o.IsImportant, &category, &targetDate, &flagged, &flagNote,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.Category = domain.Category(category)
	if targetDate.Valid {
		t, err := timeFromDB(targetDate.String)
		if err != nil {
			return o, fmt.Errorf("objective %s target date: %w", o.ID, err)
		}
		o.TargetDate = &t
	}
	if flagged || flagNote.Valid {
		o.Flag = &domain.Flag{IsFlagged: flagged}
		if flagNote.Valid {
			o.Flag.Description = flagNote.String
		}
	}
	return o, nil
}

func objectiveArgs(o domain.Objective) []any {
	var targetDate any
	if o.TargetDate != nil {
		targetDate = timeToDB(*o.TargetDate)
	}
	var flagged bool
	var flagNote any
	if o.Flag != nil {
		flagged = o.Flag.IsFlagged
		flagNote = nullable(o.Flag.Description)
	}
	return []any{o.ID, o.ProductID, o.WeekID, o.Title, o.Progress, o.Position,
		o.IsUrgent, o.IsImportant, string(o.Category), targetDate, flagged, flagNote,
		o.CreatedAt, o.UpdatedAt}
}

func (r Repo) ListObjectives(ctx context.Context, productID, weekID string) ([]domain.Objective, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+objectiveColumns+` FROM objectives WHERE product_id=? AND week_id=? ORDER BY position ASC, id ASC`,
		productID, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Objective
	for rows.Next() {
		o, err := scanObjective(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

func (r Repo) GetObjective(ctx context.Context, id string) (domain.Objective, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+objectiveColumns+` FROM objectives WHERE id=?`, id)
	o, err := scanObjective(row.Scan)
	if err == sql.ErrNoRows {
		return o, store.ErrNotFound
	}
	return o, err
}

func (r Repo) CreateObjective(ctx context.Context, o domain.Objective) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO objectives(`+objectiveColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		objectiveArgs(o)...)
	return err
}

func (r Repo) UpdateObjective(ctx context.Context, o domain.Objective) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE objectives SET product_id=?,week_id=?,title=?,progress=?,position=?,is_urgent=?,is_important=?,category=?,target_date=?,flagged=?,flag_note=?,created_at=?,updated_at=? WHERE id=?`,
		append(objectiveArgs(o)[1:], o.ID)...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r Repo) DeleteObjective(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM objectives WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
