package gormstore

import (
	"time"

	"gorm.io/gorm"
)

// Rows as stored. They never leave this package: repositories map them to
// domain values before returning.

type addressColumns struct {
	City    string `gorm:"column:city"`
	Street  string `gorm:"column:street"`
	Zipcode string `gorm:"column:zipcode"`
}

type memberRecord struct {
	ID      int64          `gorm:"column:member_id;primaryKey;autoIncrement"`
	Name    string         `gorm:"column:name;not null;uniqueIndex"`
	Address addressColumns `gorm:"embedded"`
}

func (memberRecord) TableName() string { return "members" }

// itemRecord is the single-table mapping of every item kind; dtype selects
// which kind columns are meaningful.
type itemRecord struct {
	ID            int64  `gorm:"column:item_id;primaryKey;autoIncrement"`
	Kind          string `gorm:"column:dtype;size:1;not null"`
	Name          string `gorm:"column:name;not null"`
	Price         int    `gorm:"column:price;not null"`
	StockQuantity int    `gorm:"column:stock_quantity;not null;check:stock_quantity >= 0"`

	Author   string `gorm:"column:author"`
	Isbn     string `gorm:"column:isbn"`
	Director string `gorm:"column:director"`
	Actor    string `gorm:"column:actor"`
	Artist   string `gorm:"column:artist"`
	Etc      string `gorm:"column:etc"`
}

func (itemRecord) TableName() string { return "items" }

type categoryRecord struct {
	ID       int64  `gorm:"column:category_id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name;not null;uniqueIndex"`
	ParentID *int64 `gorm:"column:parent_id;index"`
}

func (categoryRecord) TableName() string { return "categories" }

type categoryItemRecord struct {
	CategoryID int64 `gorm:"column:category_id;primaryKey"`
	ItemID     int64 `gorm:"column:item_id;primaryKey"`
}

func (categoryItemRecord) TableName() string { return "category_item" }

type deliveryRecord struct {
	ID      int64          `gorm:"column:delivery_id;primaryKey;autoIncrement"`
	Address addressColumns `gorm:"embedded"`
	Status  string         `gorm:"column:status;not null"`
}

func (deliveryRecord) TableName() string { return "deliveries" }

type orderRecord struct {
	ID         int64              `gorm:"column:order_id;primaryKey;autoIncrement"`
	MemberID   int64              `gorm:"column:member_id;not null;index"`
	Member     *memberRecord      `gorm:"foreignKey:MemberID;references:ID;belongsTo:Member"`
	DeliveryID int64              `gorm:"column:delivery_id;not null;uniqueIndex"`
	Delivery   *deliveryRecord    `gorm:"foreignKey:DeliveryID;references:ID;belongsTo:Delivery"`
	OrderItems []*orderItemRecord `gorm:"foreignKey:OrderID;references:ID"`
	OrderDate  time.Time          `gorm:"column:order_date;not null"`
	Status     string             `gorm:"column:status;not null;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID         int64       `gorm:"column:order_item_id;primaryKey;autoIncrement"`
	OrderID    int64       `gorm:"column:order_id;not null;index"`
	ItemID     int64       `gorm:"column:item_id;not null;index"`
	Item       *itemRecord `gorm:"foreignKey:ItemID;references:ID;belongsTo:Item"`
	OrderPrice int         `gorm:"column:order_price;not null"`
	Count      int         `gorm:"column:count;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type orderLogRecord struct {
	EntryID   string    `gorm:"column:entry_id;primaryKey;size:36"`
	OrderID   int64     `gorm:"column:order_id;not null;index:idx_order_logs_order,priority:1"`
	Status    string    `gorm:"column:status;not null"`
	Note      string    `gorm:"column:note"`
	TraceID   string    `gorm:"column:trace_id;not null;default:'';index"`
	SpanID    string    `gorm:"column:span_id;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_order_logs_order,priority:2"`
}

func (orderLogRecord) TableName() string { return "order_logs" }

// migrate creates or updates every table used by the shop service.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&memberRecord{},
		&itemRecord{},
		&categoryRecord{},
		&categoryItemRecord{},
		&deliveryRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&orderLogRecord{},
	)
}
