package repo

import (
	"context"
	"database/sql"
	"fmt"

	"weekplan/internal/store"
)

// BatchWrite applies every op inside one transaction. Reorders and clones
// write the full sibling array through here so a half-applied position
// sequence can never be observed. No isolation against a concurrent second
// batch: last writer wins.
func (r Repo) BatchWrite(ctx context.Context, ops []store.Op) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, op := range ops {
		if err := applyOp(ctx, tx, op); err != nil {
			return fmt.Errorf("batch %s %s/%s: %w", op.Type, op.Collection, op.ID, err)
		}
	}
	return tx.Commit()
}

func applyOp(ctx context.Context, tx *sql.Tx, op store.Op) error {
	switch op.Type {
	case store.OpSet, store.OpUpdate:
		return applySet(ctx, tx, op)
	case store.OpDelete:
		return applyDelete(ctx, tx, op)
	default:
		return fmt.Errorf("unknown op type %q", op.Type)
	}
}

func applySet(ctx context.Context, tx *sql.Tx, op store.Op) error {
	switch op.Collection {
	case store.Objectives:
		if op.Objective == nil {
			return fmt.Errorf("missing objective payload")
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO objectives(`+objectiveColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET product_id=excluded.product_id, week_id=excluded.week_id, title=excluded.title,
progress=excluded.progress, position=excluded.position, is_urgent=excluded.is_urgent, is_important=excluded.is_important,
category=excluded.category, target_date=excluded.target_date, flagged=excluded.flagged, flag_note=excluded.flag_note,
updated_at=excluded.updated_at`,
			objectiveArgs(*op.Objective)...)
		return err
	case store.Tasks:
		if op.Task == nil {
			return fmt.Errorf("missing task payload")
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks(`+taskColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET objective_id=excluded.objective_id, title=excluded.title, assignee_id=excluded.assignee_id,
complexity=excluded.complexity, criticality=excluded.criticality, completed=excluded.completed, position=excluded.position,
updated_at=excluded.updated_at`,
			taskArgs(*op.Task)...)
		return err
	case store.WeekRanges:
		if op.WeekRange == nil {
			return fmt.Errorf("missing week range payload")
		}
		w := *op.WeekRange
		_, err := tx.ExecContext(ctx,
			`INSERT INTO week_ranges(id,start_date,end_date,label) VALUES (?,?,?,?)
ON CONFLICT(id) DO UPDATE SET label=excluded.label`,
			w.ID, timeToDB(w.StartDate), timeToDB(w.EndDate), w.Label)
		return err
	default:
		return fmt.Errorf("collection %q not batch-writable", op.Collection)
	}
}

func applyDelete(ctx context.Context, tx *sql.Tx, op store.Op) error {
	table := map[store.Collection]string{
		store.Objectives: "objectives",
		store.Tasks:      "tasks",
		store.WeekRanges: "week_ranges",
	}[op.Collection]
	if table == "" {
		return fmt.Errorf("collection %q not batch-writable", op.Collection)
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=?`, op.ID)
	return err
}
