// Package repo implements store.Store on SQLite. It is the persistent
// backend; internal/memstore is the demo fallback.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"weekplan/internal/domain"
	"weekplan/internal/store"
)

type Repo struct {
	DB *sql.DB
}

var _ store.Store = Repo{}

func timeToDB(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// timeFromDB goes through the boundary normalizer so legacy rows with
// date-only or epoch values still load.
func timeFromDB(s string) (time.Time, error) {
	return store.NormalizeDate(s)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}

func (r Repo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name,COALESCE(description,'') AS description,created_at FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r Repo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,COALESCE(description,'') AS description,created_at FROM products WHERE id=?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, store.ErrNotFound
	}
	return p, err
}

func (r Repo) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO products(id,name,description,created_at) VALUES (?,?,?,?)`,
		p.ID, p.Name, nullable(p.Description), p.CreatedAt)
	return err
}

func (r Repo) UpdateProduct(ctx context.Context, id string, name, description *string) error {
	var (
		fields []string
		args   []any
	)
	if name != nil {
		fields = append(fields, "name=?")
		args = append(args, *name)
	}
	if description != nil {
		fields = append(fields, "description=?")
		args = append(args, nullable(*description))
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, fmt.Sprintf(`UPDATE products SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r Repo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r Repo) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name,COALESCE(role,''),COALESCE(avatar,''),COALESCE(initials,'') FROM members ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Avatar, &m.Initials); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r Repo) GetMember(ctx context.Context, id string) (domain.Member, error) {
	var m domain.Member
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,COALESCE(role,''),COALESCE(avatar,''),COALESCE(initials,'') FROM members WHERE id=?`, id).
		Scan(&m.ID, &m.Name, &m.Role, &m.Avatar, &m.Initials)
	if err == sql.ErrNoRows {
		return m, store.ErrNotFound
	}
	return m, err
}

func (r Repo) CreateMember(ctx context.Context, m domain.Member) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO members(id,name,role,avatar,initials) VALUES (?,?,?,?,?)`,
		m.ID, m.Name, nullable(m.Role), nullable(m.Avatar), nullable(m.Initials))
	return err
}
