package domain

// OrderSearch filters aggregate loads. Zero fields mean "no constraint".
type OrderSearch struct {
	Status     OrderStatus
	MemberName string
}

func (s OrderSearch) Validate() error {
	if s.Status != "" && !s.Status.Valid() {
		return ErrInvalidSearch
	}
	return nil
}

// Page is an offset/limit window. The zero value means unpaged.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) Validate() error {
	if p.Offset < 0 || p.Limit < 0 {
		return ErrInvalidSearch
	}
	if p.Offset > 0 && p.Limit == 0 {
		return ErrInvalidSearch
	}
	return nil
}
