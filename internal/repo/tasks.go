package repo

import (
	"context"
	"database/sql"

	"weekplan/internal/domain"
	"weekplan/internal/store"
)

const taskColumns = `id,objective_id,title,assignee_id,complexity,criticality,completed,position,created_at,updated_at`

func scanTask(scan func(dest ...any) error) (domain.Task, error) {
	var t domain.Task
	var assignee sql.NullString
	err := scan(&t.ID, &t.ObjectiveID, &t.Title, &assignee, &t.Complexity, &t.Criticality,
		&t.Completed, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	if assignee.Valid {
		t.Assignee = &assignee.String
	}
	return t, nil
}

func taskArgs(t domain.Task) []any {
	return []any{t.ID, t.ObjectiveID, t.Title, nullableStringPtr(t.Assignee),
		t.Complexity, t.Criticality, t.Completed, t.Position, t.CreatedAt, t.UpdatedAt}
}

func (r Repo) ListTasks(ctx context.Context, objectiveID string) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE objective_id=? ORDER BY position ASC, id ASC`, objectiveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id)
	t, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return t, store.ErrNotFound
	}
	return t, err
}

func (r Repo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO tasks(`+taskColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)`, taskArgs(t)...)
	return err
}

func (r Repo) UpdateTask(ctx context.Context, t domain.Task) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tasks SET objective_id=?,title=?,assignee_id=?,complexity=?,criticality=?,completed=?,position=?,created_at=?,updated_at=? WHERE id=?`,
		append(taskArgs(t)[1:], t.ID)...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r Repo) DeleteTask(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
