package httpx

import (
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/orderlog"
	"github.com/jcmexdev/shop-orders/internal/shop-service/query"
)

func mapMember(m *domain.Member) MemberResponse {
	return MemberResponse{ID: m.ID, Name: m.Name, Address: mapAddress(m.Address)}
}

func mapAddress(a domain.Address) AddressDTO {
	return AddressDTO{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}

func mapQueryAddress(a query.Address) AddressDTO {
	return AddressDTO{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}

// itemFromRequest builds the variant named by req.Kind. An unknown kind gives
// an item that fails Validate.
func itemFromRequest(req ItemRequest) *domain.Item {
	switch domain.ItemKind(req.Kind) {
	case domain.KindBook:
		return domain.NewBook(req.Name, req.Price, req.StockQuantity, domain.BookDetails{Author: req.Author, ISBN: req.Isbn})
	case domain.KindMovie:
		return domain.NewMovie(req.Name, req.Price, req.StockQuantity, domain.MovieDetails{Director: req.Director, Actor: req.Actor})
	case domain.KindAlbum:
		return domain.NewAlbum(req.Name, req.Price, req.StockQuantity, domain.AlbumDetails{Artist: req.Artist, Etc: req.Etc})
	}
	return &domain.Item{Kind: domain.ItemKind(req.Kind), Name: req.Name, Price: req.Price, StockQuantity: req.StockQuantity}
}

func mapItem(it *domain.Item) ItemResponse {
	resp := ItemResponse{
		ID: it.ID,
		ItemRequest: ItemRequest{
			Kind:          string(it.Kind),
			Name:          it.Name,
			Price:         it.Price,
			StockQuantity: it.StockQuantity,
		},
	}
	switch {
	case it.Book != nil:
		resp.Author, resp.Isbn = it.Book.Author, it.Book.ISBN
	case it.Movie != nil:
		resp.Director, resp.Actor = it.Movie.Director, it.Movie.Actor
	case it.Album != nil:
		resp.Artist, resp.Etc = it.Album.Artist, it.Album.Etc
	}
	return resp
}

func mapCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
}

func mapSimpleOrders(in []query.SimpleOrder) []SimpleOrderResponse {
	out := make([]SimpleOrderResponse, 0, len(in))
	for _, o := range in {
		out = append(out, SimpleOrderResponse{
			OrderID:     o.OrderID,
			Name:        o.MemberName,
			OrderDate:   o.OrderDate,
			OrderStatus: string(o.Status),
			Address:     mapQueryAddress(o.Address),
		})
	}
	return out
}

func mapOrders(in []query.OrderAggregate) []OrderResponse {
	out := make([]OrderResponse, 0, len(in))
	for _, o := range in {
		items := make([]OrderItemResponse, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, OrderItemResponse{ItemName: it.ItemName, OrderPrice: it.OrderPrice, Count: it.Count})
		}
		out = append(out, OrderResponse{
			OrderID:     o.OrderID,
			Name:        o.MemberName,
			OrderDate:   o.OrderDate,
			OrderStatus: string(o.Status),
			Address:     mapQueryAddress(o.Address),
			OrderItems:  items,
		})
	}
	return out
}

func mapOrderLog(in []*orderlog.Entry) []OrderLogResponse {
	out := make([]OrderLogResponse, 0, len(in))
	for _, e := range in {
		out = append(out, OrderLogResponse{
			Status:    string(e.Status),
			Note:      e.Note,
			TraceID:   e.TraceID,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
