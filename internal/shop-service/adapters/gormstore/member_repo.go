package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
)

var _ ports.MemberRepository = (*MemberRepo)(nil)

type MemberRepo struct{}

func NewMemberRepo() *MemberRepo { return &MemberRepo{} }

func (r *MemberRepo) Save(ctx context.Context, m *domain.Member) error {
	tx, err := conn(ctx, "save member")
	if err != nil {
		return err
	}
	rec := memberFromDomain(m)
	if err := tx.Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateMember
		}
		return domain.NewStorageError("save member", err)
	}
	m.ID = rec.ID
	return nil
}

func (r *MemberRepo) FindOne(ctx context.Context, id int64) (*domain.Member, error) {
	tx, err := conn(ctx, "find member")
	if err != nil {
		return nil, err
	}
	var rec memberRecord
	if err := tx.First(&rec, "member_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find member", err)
	}
	return memberToDomain(&rec), nil
}

func (r *MemberRepo) FindAll(ctx context.Context) ([]*domain.Member, error) {
	tx, err := conn(ctx, "list members")
	if err != nil {
		return nil, err
	}
	var recs []*memberRecord
	if err := tx.Order("member_id").Find(&recs).Error; err != nil {
		return nil, domain.NewStorageError("list members", err)
	}
	return membersToDomain(recs), nil
}

func (r *MemberRepo) FindByName(ctx context.Context, name string) ([]*domain.Member, error) {
	tx, err := conn(ctx, "find members by name")
	if err != nil {
		return nil, err
	}
	var recs []*memberRecord
	if err := tx.Where("name = ?", name).Order("member_id").Find(&recs).Error; err != nil {
		return nil, domain.NewStorageError("find members by name", err)
	}
	return membersToDomain(recs), nil
}

func (r *MemberRepo) UpdateName(ctx context.Context, id int64, name string) error {
	tx, err := conn(ctx, "update member")
	if err != nil {
		return err
	}
	res := tx.Model(&memberRecord{}).Where("member_id = ?", id).Update("name", name)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrDuplicateMember
		}
		return domain.NewStorageError("update member", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func membersToDomain(recs []*memberRecord) []*domain.Member {
	out := make([]*domain.Member, 0, len(recs))
	for _, rec := range recs {
		out = append(out, memberToDomain(rec))
	}
	return out
}
