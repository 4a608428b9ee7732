package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"weekplan/internal/domain"
)

func (e Engine) CreateProduct(ctx context.Context, id, name, description, actorID string) (domain.Product, error) {
	if name == "" {
		return domain.Product{}, errors.New("name is required")
	}
	now := e.nowString()
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("product|"+name+"|"+now)).String()
	}
	p := domain.Product{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
	}
	if err := e.Store.CreateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	if err := e.appendEvent(ctx, "product.created", p.ID, "product", p.ID, actorID, eventPayload{
		"name": p.Name,
	}); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (e Engine) UpdateProduct(ctx context.Context, id string, name, description *string, actorID string) (domain.Product, error) {
	if name != nil && *name == "" {
		return domain.Product{}, errors.New("name must not be empty")
	}
	if err := e.Store.UpdateProduct(ctx, id, name, description); err != nil {
		return domain.Product{}, err
	}
	p, err := e.Store.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if err := e.appendEvent(ctx, "product.updated", p.ID, "product", p.ID, actorID, nil); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes the product and cascades to its objectives and tasks.
func (e Engine) DeleteProduct(ctx context.Context, id, actorID string) error {
	if _, err := e.Store.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := e.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return e.appendEvent(ctx, "product.deleted", id, "product", id, actorID, nil)
}

func (e Engine) CreateMember(ctx context.Context, m domain.Member, actorID string) (domain.Member, error) {
	if m.Name == "" {
		return domain.Member{}, errors.New("name is required")
	}
	if m.ID == "" {
		m.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("member|"+m.Name+"|"+e.nowString())).String()
	}
	if m.Initials == "" {
		m.Initials = initialsOf(m.Name)
	}
	if err := e.Store.CreateMember(ctx, m); err != nil {
		return domain.Member{}, err
	}
	if err := e.appendEvent(ctx, "member.created", "", "member", m.ID, actorID, eventPayload{
		"name": m.Name,
	}); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

func initialsOf(name string) string {
	out := ""
	prevSpace := true
	for _, r := range name {
		if r == ' ' || r == '-' {
			prevSpace = true
			continue
		}
		if prevSpace && len(out) < 3 {
			out += string(r)
		}
		prevSpace = false
	}
	return strings.ToUpper(out)
}
