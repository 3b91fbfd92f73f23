package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
	"github.com/jcmexdev/shop-orders/internal/shop-service/query"
)

var _ ports.OrderLoader = (*OrderLoader)(nil)

// Aliased joins shared by the hand-written selects. The gorm InnerJoins
// variants alias the joined tables by association name instead ("Member",
// "Delivery").
const (
	fromOrders     = "orders o"
	joinMember     = "JOIN members m ON m.member_id = o.member_id"
	joinDelivery   = "JOIN deliveries d ON d.delivery_id = o.delivery_id"
	joinOrderItems = "JOIN order_items oi ON oi.order_id = o.order_id"
	joinItem       = "JOIN items i ON i.item_id = oi.item_id"

	headColumns = "o.order_id, m.name AS member_name, o.order_date, o.status, " +
		"d.city, d.street, d.zipcode"

	flatColumns = headColumns + ", i.name AS item_name, oi.order_price, oi.count"

	lineColumns = "oi.order_id, i.name AS item_name, oi.order_price, oi.count"

	graphColumns = "o.order_id, o.order_date, o.status AS order_status, " +
		"m.member_id, m.name AS member_name, m.city AS member_city, m.street AS member_street, m.zipcode AS member_zipcode, " +
		"d.delivery_id, d.status AS delivery_status, d.city AS delivery_city, d.street AS delivery_street, d.zipcode AS delivery_zipcode, " +
		"oi.order_item_id, oi.order_price, oi.count, " +
		"i.item_id, i.dtype AS item_kind, i.name AS item_name, i.price AS item_price, i.stock_quantity, " +
		"i.author, i.isbn, i.director, i.actor, i.artist, i.etc"
)

// orderHeadRow is the to-one projection of one order.
type orderHeadRow struct {
	OrderID    int64
	MemberName string
	OrderDate  time.Time
	Status     string
	City       string
	Street     string
	Zipcode    string
}

func (r orderHeadRow) simple() query.SimpleOrder {
	return query.SimpleOrder{
		OrderID:    r.OrderID,
		MemberName: r.MemberName,
		OrderDate:  r.OrderDate,
		Status:     domain.OrderStatus(r.Status),
		Address:    query.Address{City: r.City, Street: r.Street, Zipcode: r.Zipcode},
	}
}

func (r orderHeadRow) aggregate(lines []query.OrderItemLine) query.OrderAggregate {
	s := r.simple()
	if lines == nil {
		lines = []query.OrderItemLine{}
	}
	return query.OrderAggregate{
		OrderID:    s.OrderID,
		MemberName: s.MemberName,
		OrderDate:  s.OrderDate,
		Status:     s.Status,
		Address:    s.Address,
		Items:      lines,
	}
}

// flatRow is orderHeadRow plus one item line. Scan ignores unexported
// embedded structs, so the head columns are spelled out.
type flatRow struct {
	OrderID    int64
	MemberName string
	OrderDate  time.Time
	Status     string
	City       string
	Street     string
	Zipcode    string
	ItemName   string
	OrderPrice int
	Count      int
}

type lineRow struct {
	OrderID    int64
	ItemName   string
	OrderPrice int
	Count      int
}

// orderGraphRow is one row of the full entity join: the order and its
// to-one associations repeated for every order item.
type orderGraphRow struct {
	OrderID     int64
	OrderDate   time.Time
	OrderStatus string

	MemberID      int64
	MemberName    string
	MemberCity    string
	MemberStreet  string
	MemberZipcode string

	DeliveryID      int64
	DeliveryStatus  string
	DeliveryCity    string
	DeliveryStreet  string
	DeliveryZipcode string

	OrderItemID int64
	OrderPrice  int
	Count       int

	ItemID        int64
	ItemKind      string
	ItemName      string
	ItemPrice     int
	StockQuantity int
	Author        string
	Isbn          string
	Director      string
	Actor         string
	Artist        string
	Etc           string
}

// OrderLoader implements every order fetch strategy on top of the
// transaction found in the context.
type OrderLoader struct{}

func NewOrderLoader() *OrderLoader { return &OrderLoader{} }

// searchScope applies s to a query where the order and member tables are
// reachable as orderTable and memberTable. The member name matches as a
// case-sensitive substring on every driver.
func searchScope(s domain.OrderSearch, orderTable, memberTable string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.Status != "" {
			db = db.Where(clause.Eq{
				Column: clause.Column{Table: orderTable, Name: "status"},
				Value:  string(s.Status),
			})
		}
		if s.MemberName != "" {
			db = db.Where(clause.Expr{
				SQL:  substringFunc(db) + "(?, ?) > 0",
				Vars: []any{clause.Column{Table: memberTable, Name: "name"}, s.MemberName},
			})
		}
		return db
	}
}

// substringFunc names a case-sensitive literal substring search. LIKE is
// case-insensitive on SQLite and treats % and _ as wildcards.
func substringFunc(db *gorm.DB) string {
	if db.Dialector.Name() == DriverPostgres {
		return "strpos"
	}
	return "instr"
}

func pageScope(p domain.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit > 0 {
			db = db.Limit(p.Limit)
		}
		if p.Offset > 0 {
			db = db.Offset(p.Offset)
		}
		return db
	}
}

func (l *OrderLoader) LoadWithToOne(ctx context.Context, s domain.OrderSearch) ([]*domain.Order, error) {
	return l.loadToOne(ctx, "load orders with member and delivery", s, domain.Page{})
}

func (l *OrderLoader) LoadWithToOnePaged(ctx context.Context, s domain.OrderSearch, offset, limit int) ([]*domain.Order, error) {
	return l.loadToOne(ctx, "load order page", s, domain.Page{Offset: offset, Limit: limit})
}

func (l *OrderLoader) loadToOne(ctx context.Context, op string, s domain.OrderSearch, page domain.Page) ([]*domain.Order, error) {
	tx, err := conn(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := validate(s, page); err != nil {
		return nil, err
	}

	var recs []*orderRecord
	err = tx.InnerJoins("Member").
		InnerJoins("Delivery").
		Scopes(searchScope(s, "orders", "Member"), pageScope(page)).
		Order("orders.order_id").
		Find(&recs).Error
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	members := map[int64]*domain.Member{}
	out := make([]*domain.Order, 0, len(recs))
	for _, rec := range recs {
		o := orderToDomain(rec, false)
		if m, ok := members[o.Member.ID]; ok {
			o.Member = m
		} else {
			members[o.Member.ID] = o.Member
		}
		out = append(out, o)
	}
	return out, nil
}

// LoadWithItems issues the full join and folds the repeated order rows back
// into one order per id, in order id order.
func (l *OrderLoader) LoadWithItems(ctx context.Context, s domain.OrderSearch) ([]*domain.Order, error) {
	const op = "load orders with items"
	tx, err := conn(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var rows []orderGraphRow
	err = tx.Table(fromOrders).
		Select(graphColumns).
		Joins(joinMember).
		Joins(joinDelivery).
		Joins(joinOrderItems).
		Joins(joinItem).
		Scopes(searchScope(s, "o", "m")).
		Order("o.order_id, oi.order_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return foldOrderGraph(rows), nil
}

// foldOrderGraph deduplicates by primary key: one Order per order id, one
// Member and one Item per id shared by every order that references it.
func foldOrderGraph(rows []orderGraphRow) []*domain.Order {
	var (
		out     []*domain.Order
		orders  = map[int64]*domain.Order{}
		members = map[int64]*domain.Member{}
		items   = map[int64]*domain.Item{}
	)
	for _, r := range rows {
		o, ok := orders[r.OrderID]
		if !ok {
			m, seen := members[r.MemberID]
			if !seen {
				m = &domain.Member{
					ID:      r.MemberID,
					Name:    r.MemberName,
					Address: domain.Address{City: r.MemberCity, Street: r.MemberStreet, Zipcode: r.MemberZipcode},
				}
				members[r.MemberID] = m
			}
			o = &domain.Order{
				ID:     r.OrderID,
				Member: m,
				Delivery: &domain.Delivery{
					ID:      r.DeliveryID,
					Address: domain.Address{City: r.DeliveryCity, Street: r.DeliveryStreet, Zipcode: r.DeliveryZipcode},
					Status:  domain.DeliveryStatus(r.DeliveryStatus),
				},
				OrderDate:   r.OrderDate,
				Status:      domain.OrderStatus(r.OrderStatus),
				Items:       []*domain.OrderItem{},
				ItemsLoaded: true,
			}
			orders[r.OrderID] = o
			out = append(out, o)
		}

		it, seen := items[r.ItemID]
		if !seen {
			it = itemToDomain(&itemRecord{
				ID:            r.ItemID,
				Kind:          r.ItemKind,
				Name:          r.ItemName,
				Price:         r.ItemPrice,
				StockQuantity: r.StockQuantity,
				Author:        r.Author,
				Isbn:          r.Isbn,
				Director:      r.Director,
				Actor:         r.Actor,
				Artist:        r.Artist,
				Etc:           r.Etc,
			})
			items[r.ItemID] = it
		}
		o.Items = append(o.Items, &domain.OrderItem{
			ID:         r.OrderItemID,
			Item:       it,
			OrderPrice: r.OrderPrice,
			Count:      r.Count,
		})
	}
	if out == nil {
		out = []*domain.Order{}
	}
	return out
}

// FetchItems fills the items of orders with a single IN query.
func (l *OrderLoader) FetchItems(ctx context.Context, orders []*domain.Order) error {
	const op = "fetch order items"
	tx, err := conn(ctx, op)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	var recs []*orderItemRecord
	err = tx.InnerJoins("Item").
		Where("order_items.order_id IN ?", ids).
		Order("order_items.order_id, order_items.order_item_id").
		Find(&recs).Error
	if err != nil {
		return domain.NewStorageError(op, err)
	}

	byOrder := make(map[int64][]*domain.OrderItem, len(orders))
	items := map[int64]*domain.Item{}
	for _, rec := range recs {
		it, ok := items[rec.ItemID]
		if !ok {
			it = itemToDomain(rec.Item)
			items[rec.ItemID] = it
		}
		byOrder[rec.OrderID] = append(byOrder[rec.OrderID], &domain.OrderItem{
			ID:         rec.ID,
			Item:       it,
			OrderPrice: rec.OrderPrice,
			Count:      rec.Count,
		})
	}
	for _, o := range orders {
		o.Items = byOrder[o.ID]
		if o.Items == nil {
			o.Items = []*domain.OrderItem{}
		}
		o.ItemsLoaded = true
	}
	return nil
}

// LoadBatched runs the (optionally paged) head query, then one IN query for
// the item lines of exactly those orders.
func (l *OrderLoader) LoadBatched(ctx context.Context, s domain.OrderSearch, page domain.Page) ([]query.OrderAggregate, error) {
	const op = "load orders batched"
	tx, err := conn(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := validate(s, page); err != nil {
		return nil, err
	}

	heads, err := loadHeads(tx, s, page)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	if len(heads) == 0 {
		return []query.OrderAggregate{}, nil
	}

	ids := make([]int64, 0, len(heads))
	for _, h := range heads {
		ids = append(ids, h.OrderID)
	}
	var lines []lineRow
	err = tx.Table("order_items oi").
		Select(lineColumns).
		Joins(joinItem).
		Where("oi.order_id IN ?", ids).
		Order("oi.order_id, oi.order_item_id").
		Scan(&lines).Error
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	byOrder := make(map[int64][]query.OrderItemLine, len(heads))
	for _, ln := range lines {
		byOrder[ln.OrderID] = append(byOrder[ln.OrderID], ln.line())
	}
	out := make([]query.OrderAggregate, 0, len(heads))
	for _, h := range heads {
		out = append(out, h.aggregate(byOrder[h.OrderID]))
	}
	return out, nil
}

// LoadPerOrder is the naive strategy: one head query, then one item query
// per order.
func (l *OrderLoader) LoadPerOrder(ctx context.Context, s domain.OrderSearch) ([]query.OrderAggregate, error) {
	const op = "load orders per order"
	tx, err := conn(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	heads, err := loadHeads(tx, s, domain.Page{})
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	out := make([]query.OrderAggregate, 0, len(heads))
	for _, h := range heads {
		var rows []lineRow
		err := tx.Table("order_items oi").
			Select(lineColumns).
			Joins(joinItem).
			Where("oi.order_id = ?", h.OrderID).
			Order("oi.order_item_id").
			Scan(&rows).Error
		if err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		lines := make([]query.OrderItemLine, 0, len(rows))
		for _, r := range rows {
			lines = append(lines, r.line())
		}
		out = append(out, h.aggregate(lines))
	}
	return out, nil
}

// LoadFlat returns the full join as flat rows, ordered by order id and then
// by order item id.
func (l *OrderLoader) LoadFlat(ctx context.Context, s domain.OrderSearch) ([]query.FlatRow, error) {
	const op = "load flat order rows"
	tx, err := conn(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var rows []flatRow
	err = tx.Table(fromOrders).
		Select(flatColumns).
		Joins(joinMember).
		Joins(joinDelivery).
		Joins(joinOrderItems).
		Joins(joinItem).
		Scopes(searchScope(s, "o", "m")).
		Order("o.order_id, oi.order_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	out := make([]query.FlatRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, query.FlatRow{
			OrderID:    r.OrderID,
			MemberName: r.MemberName,
			OrderDate:  r.OrderDate,
			Status:     domain.OrderStatus(r.Status),
			City:       r.City,
			Street:     r.Street,
			Zipcode:    r.Zipcode,
			ItemName:   r.ItemName,
			OrderPrice: r.OrderPrice,
			Count:      r.Count,
		})
	}
	return out, nil
}

func (l *OrderLoader) LoadSimple(ctx context.Context, s domain.OrderSearch) ([]query.SimpleOrder, error) {
	const op = "load simple orders"
	tx, err := conn(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	heads, err := loadHeads(tx, s, domain.Page{})
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	out := make([]query.SimpleOrder, 0, len(heads))
	for _, h := range heads {
		out = append(out, h.simple())
	}
	return out, nil
}

func loadHeads(tx *gorm.DB, s domain.OrderSearch, page domain.Page) ([]orderHeadRow, error) {
	var heads []orderHeadRow
	err := tx.Table(fromOrders).
		Select(headColumns).
		Joins(joinMember).
		Joins(joinDelivery).
		Scopes(searchScope(s, "o", "m"), pageScope(page)).
		Order("o.order_id").
		Scan(&heads).Error
	return heads, err
}

func (r lineRow) line() query.OrderItemLine {
	return query.OrderItemLine{
		OrderID:    r.OrderID,
		ItemName:   r.ItemName,
		OrderPrice: r.OrderPrice,
		Count:      r.Count,
	}
}

func validate(s domain.OrderSearch, page domain.Page) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return page.Validate()
}
