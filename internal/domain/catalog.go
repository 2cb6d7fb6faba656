package domain

import (
	"time"

	"github.com/google/uuid"
)

// Author represents a manga author in the catalog
type Author struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Genre represents a manga genre
type Genre struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Publisher represents a manga publisher
type Publisher struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Website   string    `json:"website" db:"website"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AuthorSnapshot is an immutable copy of an author embedded in a manga record.
type AuthorSnapshot struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// GenreSnapshot is an immutable copy of a genre embedded in a manga record.
type GenreSnapshot struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PublisherSnapshot is an immutable copy of a publisher embedded in a manga record.
type PublisherSnapshot struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Website string    `json:"website"`
}

// Snapshot captures the author fields embedded in mangas and rentals.
func (a *Author) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
	}
}

// Snapshot captures the genre fields embedded in mangas and rentals.
func (g *Genre) Snapshot() GenreSnapshot {
	return GenreSnapshot{ID: g.ID, Name: g.Name}
}

// Snapshot captures the publisher fields embedded in mangas and rentals.
func (p *Publisher) Snapshot() PublisherSnapshot {
	return PublisherSnapshot{ID: p.ID, Name: p.Name, Website: p.Website}
}

// Manga represents a rentable title in the catalog. UnitsAvailable is the
// number of units currently free to rent; Capacity is the provisioned number
// of units. Both are mutated only through the inventory repository.
type Manga struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	Title          string            `json:"title" db:"title"`
	Author         AuthorSnapshot    `json:"author" db:"author"`
	Genre          GenreSnapshot     `json:"genre" db:"genre"`
	Publisher      PublisherSnapshot `json:"publisher" db:"publisher"`
	UnitsAvailable int               `json:"units_available" db:"units_available"`
	Capacity       int               `json:"capacity" db:"capacity"`
	DailyRate      float64           `json:"daily_rate" db:"daily_rate"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// MangaSnapshot is the descriptive subset of a manga embedded in a rental at
// creation time. It deliberately excludes stock counts so later catalog edits
// never change the fee of an open rental.
type MangaSnapshot struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Author    AuthorSnapshot    `json:"author"`
	Genre     GenreSnapshot     `json:"genre"`
	Publisher PublisherSnapshot `json:"publisher"`
	DailyRate float64           `json:"daily_rate"`
}

// Snapshot captures the manga fields embedded in a rental.
func (m *Manga) Snapshot() MangaSnapshot {
	return MangaSnapshot{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Genre:     m.Genre,
		Publisher: m.Publisher,
		DailyRate: m.DailyRate,
	}
}
