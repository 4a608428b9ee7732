package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"weekplan/internal/domain"
	"weekplan/internal/store"
)

// week_ranges has no is_current_week column: the flag is a function of the
// clock, so the engine derives it at read time.
func scanWeekRange(scan func(dest ...any) error) (domain.WeekRange, error) {
	var w domain.WeekRange
	var start, end string
	if err := scan(&w.ID, &start, &end, &w.Label); err != nil {
		return w, err
	}
	var err error
	if w.StartDate, err = timeFromDB(start); err != nil {
		return w, fmt.Errorf("week %s start: %w", w.ID, err)
	}
	if w.EndDate, err = timeFromDB(end); err != nil {
		return w, fmt.Errorf("week %s end: %w", w.ID, err)
	}
	return w, nil
}

func (r Repo) ListWeekRanges(ctx context.Context, year int) ([]domain.WeekRange, error) {
	query := `SELECT id,start_date,end_date,label FROM week_ranges ORDER BY start_date ASC`
	var args []any
	if year > 0 {
		// start_date is RFC3339, so a string prefix filter on the year works.
		query = `SELECT id,start_date,end_date,label FROM week_ranges WHERE start_date LIKE ? ORDER BY start_date ASC`
		args = append(args, strconv.Itoa(year)+"-%")
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.WeekRange
	for rows.Next() {
		w, err := scanWeekRange(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, w)
	}
	return res, rows.Err()
}

func (r Repo) GetWeekRange(ctx context.Context, id string) (domain.WeekRange, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,start_date,end_date,label FROM week_ranges WHERE id=?`, id)
	w, err := scanWeekRange(row.Scan)
	if err == sql.ErrNoRows {
		return w, store.ErrNotFound
	}
	return w, err
}

func (r Repo) PutWeekRanges(ctx context.Context, ranges []domain.WeekRange) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	inserted := 0
	for _, w := range ranges {
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO week_ranges(id,start_date,end_date,label) VALUES (?,?,?,?)`,
			w.ID, timeToDB(w.StartDate), timeToDB(w.EndDate), w.Label)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, tx.Commit()
}

func (r Repo) UpdateWeekLabel(ctx context.Context, id, label string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE week_ranges SET label=? WHERE id=?`, label, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
