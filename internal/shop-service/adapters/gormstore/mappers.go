package gormstore

import (
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/orderlog"
)

func addressToDomain(a addressColumns) domain.Address {
	return domain.Address{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}

func addressFromDomain(a domain.Address) addressColumns {
	return addressColumns{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}

func memberToDomain(r *memberRecord) *domain.Member {
	if r == nil {
		return nil
	}
	return &domain.Member{ID: r.ID, Name: r.Name, Address: addressToDomain(r.Address)}
}

func memberFromDomain(m *domain.Member) memberRecord {
	return memberRecord{ID: m.ID, Name: m.Name, Address: addressFromDomain(m.Address)}
}

func itemToDomain(r *itemRecord) *domain.Item {
	if r == nil {
		return nil
	}
	it := &domain.Item{
		ID:            r.ID,
		Kind:          domain.ItemKind(r.Kind),
		Name:          r.Name,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
	}
	switch it.Kind {
	case domain.KindBook:
		it.Book = &domain.BookDetails{Author: r.Author, ISBN: r.Isbn}
	case domain.KindMovie:
		it.Movie = &domain.MovieDetails{Director: r.Director, Actor: r.Actor}
	case domain.KindAlbum:
		it.Album = &domain.AlbumDetails{Artist: r.Artist, Etc: r.Etc}
	}
	return it
}

func itemFromDomain(it *domain.Item) itemRecord {
	r := itemRecord{
		ID:            it.ID,
		Kind:          string(it.Kind),
		Name:          it.Name,
		Price:         it.Price,
		StockQuantity: it.StockQuantity,
	}
	switch {
	case it.Book != nil:
		r.Author, r.Isbn = it.Book.Author, it.Book.ISBN
	case it.Movie != nil:
		r.Director, r.Actor = it.Movie.Director, it.Movie.Actor
	case it.Album != nil:
		r.Artist, r.Etc = it.Album.Artist, it.Album.Etc
	}
	return r
}

func categoryToDomain(r *categoryRecord) *domain.Category {
	return &domain.Category{ID: r.ID, Name: r.Name, ParentID: r.ParentID}
}

func deliveryToDomain(r *deliveryRecord) *domain.Delivery {
	if r == nil {
		return nil
	}
	return &domain.Delivery{ID: r.ID, Address: addressToDomain(r.Address), Status: domain.DeliveryStatus(r.Status)}
}

func deliveryFromDomain(d *domain.Delivery) deliveryRecord {
	return deliveryRecord{ID: d.ID, Address: addressFromDomain(d.Address), Status: string(d.Status)}
}

// orderToDomain maps r and whatever associations it carries. Items are
// marked resident only when withItems is set.
func orderToDomain(r *orderRecord, withItems bool) *domain.Order {
	o := &domain.Order{
		ID:        r.ID,
		Member:    memberToDomain(r.Member),
		Delivery:  deliveryToDomain(r.Delivery),
		OrderDate: r.OrderDate,
		Status:    domain.OrderStatus(r.Status),
	}
	if withItems {
		o.Items = orderItemsToDomain(r.OrderItems)
		o.ItemsLoaded = true
	}
	return o
}

func orderItemsToDomain(recs []*orderItemRecord) []*domain.OrderItem {
	out := make([]*domain.OrderItem, 0, len(recs))
	for _, r := range recs {
		out = append(out, &domain.OrderItem{
			ID:         r.ID,
			Item:       itemToDomain(r.Item),
			OrderPrice: r.OrderPrice,
			Count:      r.Count,
		})
	}
	return out
}

func orderLogToDomain(r *orderLogRecord) *orderlog.Entry {
	return &orderlog.Entry{
		EntryID:   r.EntryID,
		OrderID:   r.OrderID,
		Status:    domain.OrderStatus(r.Status),
		Note:      r.Note,
		TraceID:   r.TraceID,
		SpanID:    r.SpanID,
		CreatedAt: r.CreatedAt,
	}
}
