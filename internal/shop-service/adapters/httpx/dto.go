package httpx

import "time"

// Result wraps every list response so fields can be added next to data
// later without breaking clients.
type Result[T any] struct {
	Data T `json:"data"`
}

type AddressDTO struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

type CreateMemberRequest struct {
	Name    string     `json:"name"`
	Address AddressDTO `json:"address"`
}

type CreateMemberResponse struct {
	ID int64 `json:"id"`
}

type UpdateMemberRequest struct {
	Name string `json:"name"`
}

type MemberResponse struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Address AddressDTO `json:"address"`
}

// ItemRequest carries every kind's fields; Kind ("B", "M" or "A") selects
// the ones that apply.
type ItemRequest struct {
	Kind          string `json:"kind"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	StockQuantity int    `json:"stockQuantity"`

	Author   string `json:"author,omitempty"`
	Isbn     string `json:"isbn,omitempty"`
	Director string `json:"director,omitempty"`
	Actor    string `json:"actor,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Etc      string `json:"etc,omitempty"`
}

type UpdateItemRequest struct {
	Name          string `json:"name"`
	Price         int    `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
}

type ItemResponse struct {
	ID int64 `json:"id"`
	ItemRequest
}

type CategorizeRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

type CategoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
}

type CreateOrderRequest struct {
	MemberID int64                `json:"memberId"`
	Items    []CreateOrderLineDTO `json:"items"`
}

type CreateOrderLineDTO struct {
	ItemID int64 `json:"itemId"`
	Count  int   `json:"count"`
}

type CreateOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

type SimpleOrderResponse struct {
	OrderID     int64      `json:"orderId"`
	Name        string     `json:"name"`
	OrderDate   time.Time  `json:"orderDate"`
	OrderStatus string     `json:"orderStatus"`
	Address     AddressDTO `json:"address"`
}

type OrderResponse struct {
	OrderID     int64               `json:"orderId"`
	Name        string              `json:"name"`
	OrderDate   time.Time           `json:"orderDate"`
	OrderStatus string              `json:"orderStatus"`
	Address     AddressDTO          `json:"address"`
	OrderItems  []OrderItemResponse `json:"orderItems"`
}

type OrderItemResponse struct {
	ItemName   string `json:"itemName"`
	OrderPrice int    `json:"orderPrice"`
	Count      int    `json:"count"`
}

type OrderLogResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
