package domain

import "time"

// Listing is a property offered on the marketplace
type Listing struct {
	ID          string
	Title       string
	Description string
	Image       string
	Price       float64
	Location    string
	Country     string
	// Reviews holds review ids in insertion order. Nothing in this service
	// writes them; they are carried through reads and updates untouched.
	Reviews   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListingFields are the user-editable parts of a listing.
// An update replaces all of them at once.
type ListingFields struct {
	Title       string
	Description string
	Image       string
	Price       float64
	Location    string
	Country     string
}

// Fields returns the editable fields of l
func (l *Listing) Fields() ListingFields {
	return ListingFields{
		Title:       l.Title,
		Description: l.Description,
		Image:       l.Image,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
	}
}

// Apply overwrites the editable fields of l
func (l *Listing) Apply(f ListingFields) {
	l.Title = f.Title
	l.Description = f.Description
	l.Image = f.Image
	l.Price = f.Price
	l.Location = f.Location
	l.Country = f.Country
}
