package mockdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/offer"
)

// TestData is the value pool the generator draws from, fetched as JSON
// from a test-data server.
type TestData struct {
	Title           []string            `json:"title"`
	Description     []string            `json:"description"`
	PublicationDate []time.Time         `json:"publicationDate"`
	City            []offer.City        `json:"city"`
	PreviewImage    []string            `json:"previewImage"`
	Images          [][]string          `json:"images"`
	IsPremium       []bool              `json:"isPremium"`
	IsFavorite      []bool              `json:"isFavorite"`
	Rating          []float64           `json:"rating"`
	Type            []offer.HousingType `json:"type"`
	Bedrooms        []int               `json:"bedrooms"`
	MaxGuests       []int               `json:"maxGuests"`
	Price           []int               `json:"price"`
	Amenities       [][]offer.Amenity   `json:"amenities"`
	Author          []string            `json:"author"`
	CommentsCount   []int               `json:"commentsCount"`
	Coordinates     []offer.Coordinates `json:"coordinates"`
}

// Generator produces random records from a loaded value pool.
type Generator struct {
	data *TestData
	rnd  *rand.Rand

	httpClient *http.Client
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator() *Generator {
	return &Generator{
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load fetches the value pool from url.
func (g *Generator) Load(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching test data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching test data: unexpected status %d", resp.StatusCode)
	}

	var data TestData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("decoding test data: %w", err)
	}

	g.data = &data
	return nil
}

// Generate produces n random records from the loaded pool.
func (g *Generator) Generate(n int) ([]Record, error) {
	if g.data == nil {
		return nil, fmt.Errorf("test data not loaded")
	}

	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, g.generate())
	}
	return records, nil
}

func (g *Generator) generate() Record {
	d := g.data
	return Record{
		ID:              primitive.NewObjectID().Hex(),
		Title:           choice(g.rnd, d.Title),
		Description:     choice(g.rnd, d.Description),
		PublicationDate: choice(g.rnd, d.PublicationDate),
		City:            choice(g.rnd, d.City),
		PreviewImage:    choice(g.rnd, d.PreviewImage),
		Images:          choice(g.rnd, d.Images),
		IsPremium:       choice(g.rnd, d.IsPremium),
		IsFavorite:      choice(g.rnd, d.IsFavorite),
		Rating:          choice(g.rnd, d.Rating),
		Type:            choice(g.rnd, d.Type),
		Bedrooms:        choice(g.rnd, d.Bedrooms),
		MaxGuests:       choice(g.rnd, d.MaxGuests),
		Price:           choice(g.rnd, d.Price),
		Amenities:       choice(g.rnd, d.Amenities),
		Author:          choice(g.rnd, d.Author),
		CommentsCount:   choice(g.rnd, d.CommentsCount),
		Coordinates:     choice(g.rnd, d.Coordinates),
	}
}

// choice picks a uniformly random element, or the zero value from an
// empty pool.
func choice[T any](rnd *rand.Rand, pool []T) T {
	var zero T
	if len(pool) == 0 {
		return zero
	}
	return pool[rnd.Intn(len(pool))]
}
