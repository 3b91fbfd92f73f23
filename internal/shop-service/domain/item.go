package domain

// ItemKind is the discriminator stored alongside every item row.
type ItemKind string

const (
	KindBook  ItemKind = "B"
	KindMovie ItemKind = "M"
	KindAlbum ItemKind = "A"
)

func (k ItemKind) Valid() bool {
	switch k {
	case KindBook, KindMovie, KindAlbum:
		return true
	}
	return false
}

type BookDetails struct {
	Author string
	ISBN   string
}

type MovieDetails struct {
	Director string
	Actor    string
}

type AlbumDetails struct {
	Artist string
	Etc    string
}

// Item is a tagged variant: exactly one of Book, Movie or Album is set and it
// matches Kind.
type Item struct {
	ID            int64
	Kind          ItemKind
	Name          string
	Price         int
	StockQuantity int

	Book  *BookDetails
	Movie *MovieDetails
	Album *AlbumDetails
}

func NewBook(name string, price, stock int, details BookDetails) *Item {
	return &Item{Kind: KindBook, Name: name, Price: price, StockQuantity: stock, Book: &details}
}

func NewMovie(name string, price, stock int, details MovieDetails) *Item {
	return &Item{Kind: KindMovie, Name: name, Price: price, StockQuantity: stock, Movie: &details}
}

func NewAlbum(name string, price, stock int, details AlbumDetails) *Item {
	return &Item{Kind: KindAlbum, Name: name, Price: price, StockQuantity: stock, Album: &details}
}

func (i *Item) Validate() error {
	if i.Name == "" || i.Price < 0 || i.StockQuantity < 0 {
		return ErrInvalidItem
	}
	switch i.Kind {
	case KindBook:
		if i.Book == nil {
			return ErrInvalidItem
		}
	case KindMovie:
		if i.Movie == nil {
			return ErrInvalidItem
		}
	case KindAlbum:
		if i.Album == nil {
			return ErrInvalidItem
		}
	default:
		return ErrInvalidItem
	}
	return nil
}

func (i *Item) AddStock(quantity int) {
	i.StockQuantity += quantity
}

func (i *Item) RemoveStock(quantity int) error {
	rest := i.StockQuantity - quantity
	if rest < 0 {
		return ErrNotEnoughStock
	}
	i.StockQuantity = rest
	return nil
}

// Change updates the base fields shared by every kind.
func (i *Item) Change(name string, price, stock int) error {
	if name == "" || price < 0 || stock < 0 {
		return ErrInvalidItem
	}
	i.Name = name
	i.Price = price
	i.StockQuantity = stock
	return nil
}
