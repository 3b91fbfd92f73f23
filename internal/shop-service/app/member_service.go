// Package app holds the shop use cases. Every method opens exactly one unit
// of work and calls repositories with the context that carries it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
)

type MemberService struct {
	uow     ports.UnitOfWork
	members ports.MemberRepository
}

func NewMemberService(uow ports.UnitOfWork, members ports.MemberRepository) *MemberService {
	return &MemberService{uow: uow, members: members}
}

// Join registers a new member. Names are unique.
func (s *MemberService) Join(ctx context.Context, name string, addr domain.Address) (int64, error) {
	m, err := domain.NewMember(name, addr)
	if err != nil {
		return 0, err
	}
	err = s.uow.Within(ctx, func(ctx context.Context) error {
		existing, err := s.members.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.ErrDuplicateMember
		}
		return s.members.Save(ctx, m)
	})
	if err != nil {
		return 0, fmt.Errorf("app: join member: %w", err)
	}
	slog.InfoContext(ctx, "member joined", "member_id", m.ID)
	return m.ID, nil
}

func (s *MemberService) Members(ctx context.Context) ([]*domain.Member, error) {
	var out []*domain.Member
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.members.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: list members: %w", err)
	}
	return out, nil
}

func (s *MemberService) Member(ctx context.Context, id int64) (*domain.Member, error) {
	var out *domain.Member
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.members.FindOne(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: find member %d: %w", id, err)
	}
	return out, nil
}

// UpdateName renames a member and returns the stored result.
func (s *MemberService) UpdateName(ctx context.Context, id int64, name string) (*domain.Member, error) {
	if name == "" {
		return nil, domain.ErrInvalidMember
	}
	var out *domain.Member
	err := s.uow.Within(ctx, func(ctx context.Context) error {
		if err := s.members.UpdateName(ctx, id, name); err != nil {
			return err
		}
		var err error
		out, err = s.members.FindOne(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: update member %d: %w", id, err)
	}
	return out, nil
}
