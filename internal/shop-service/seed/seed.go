// Package seed loads the sample shop used for local runs and demos: two
// members, four books and one order per member.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/shop-orders/internal/shop-service/app"
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

type sampleOrder struct {
	member domain.Address
	name   string
	books  []sampleBook
}

type sampleBook struct {
	name  string
	price int
	stock int
	count int
}

var samples = []sampleOrder{
	{
		name:   "Oh",
		member: domain.Address{City: "Seoul", Street: "1", Zipcode: "1111"},
		books: []sampleBook{
			{name: "JPA1 BOOK", price: 10000, stock: 100, count: 1},
			{name: "JPA2 BOOK", price: 20000, stock: 100, count: 1},
		},
	},
	{
		name:   "Eom",
		member: domain.Address{City: "Jinju", Street: "2", Zipcode: "2222"},
		books: []sampleBook{
			{name: "SPRING1 BOOK", price: 20000, stock: 200, count: 3},
			{name: "SPRING2 BOOK", price: 40000, stock: 300, count: 4},
		},
	},
}

// Load inserts the sample data through the regular services. It does
// nothing when any member already exists, so it is safe on every start.
func Load(ctx context.Context, members *app.MemberService, items *app.ItemService, orders *app.OrderService) error {
	existing, err := members.Members(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		slog.InfoContext(ctx, "sample data skipped, members present", "members", len(existing))
		return nil
	}

	for _, s := range samples {
		memberID, err := members.Join(ctx, s.name, s.member)
		if err != nil {
			return fmt.Errorf("seed: member %s: %w", s.name, err)
		}
		lines := make([]app.OrderLine, 0, len(s.books))
		for _, b := range s.books {
			book := domain.NewBook(b.name, b.price, b.stock, domain.BookDetails{})
			if err := items.SaveItem(ctx, book); err != nil {
				return fmt.Errorf("seed: book %s: %w", b.name, err)
			}
			lines = append(lines, app.OrderLine{ItemID: book.ID, Count: b.count})
		}
		if _, err := orders.Order(ctx, memberID, lines, ""); err != nil {
			return fmt.Errorf("seed: order for %s: %w", s.name, err)
		}
	}
	slog.InfoContext(ctx, "sample data loaded", "members", len(samples))
	return nil
}
