package domain

type Address struct {
	City    string
	Street  string
	Zipcode string
}

// Member does not hold its orders; orders reference the member.
type Member struct {
	ID      int64
	Name    string
	Address Address
}

func NewMember(name string, addr Address) (*Member, error) {
	if name == "" {
		return nil, ErrInvalidMember
	}
	return &Member{Name: name, Address: addr}, nil
}

type DeliveryStatus string

const (
	DeliveryReady     DeliveryStatus = "READY"
	DeliveryCompleted DeliveryStatus = "COMPLETED"
)

type Delivery struct {
	ID      int64
	Address Address
	Status  DeliveryStatus
}

func NewDelivery(addr Address) *Delivery {
	return &Delivery{Address: addr, Status: DeliveryReady}
}

type Category struct {
	ID       int64
	Name     string
	ParentID *int64
}
