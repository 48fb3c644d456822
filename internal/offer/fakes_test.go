package offer

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/comment"
	"github.com/avolkov/six-cities/internal/user"
)

// In-memory fakes standing in for the Mongo repositories.

type fakeUsers struct {
	users     map[string]*user.User
	favorites map[string]map[string]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:     make(map[string]*user.User),
		favorites: make(map[string]map[string]bool),
	}
}

func (f *fakeUsers) add(name string) *user.User {
	u := &user.User{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: name + "@test.local",
		Type:  user.TypeRegular,
	}
	f.users[u.ID.Hex()] = u
	return u
}

func (f *fakeUsers) favorite(userID, offerID string) {
	if f.favorites[userID] == nil {
		f.favorites[userID] = make(map[string]bool)
	}
	f.favorites[userID][offerID] = true
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []string) ([]*user.User, error) {
	var users []*user.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeUsers) IsFavorite(_ context.Context, userID, offerID string) (bool, error) {
	return f.favorites[userID][offerID], nil
}

func (f *fakeUsers) FavoriteSet(_ context.Context, userID string, offerIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(offerIDs))
	for _, id := range offerIDs {
		set[id] = f.favorites[userID][id]
	}
	return set, nil
}

// fakeStats returns aggregate groups only for offers that have
// comments, like the real grouped query does.
type fakeStats struct {
	stats map[string]comment.Stats
}

func newFakeStats() *fakeStats {
	return &fakeStats{stats: make(map[string]comment.Stats)}
}

func (f *fakeStats) set(offerID string, ratings ...int) {
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	f.stats[offerID] = comment.Stats{
		Count:  len(ratings),
		Rating: float64(sum) / float64(len(ratings)),
	}
}

func (f *fakeStats) RatingByOffer(_ context.Context, offerID string) (comment.Stats, error) {
	return f.stats[offerID], nil
}

func (f *fakeStats) RatingByOffers(_ context.Context, offerIDs []string) (map[string]comment.Stats, error) {
	out := make(map[string]comment.Stats)
	for _, id := range offerIDs {
		if s, ok := f.stats[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeStore struct {
	offers    map[string]*Offer
	lastLimit int
	lastSkip  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{offers: make(map[string]*Offer)}
}

func (f *fakeStore) add(author *user.User) *Offer {
	o := &Offer{
		ID:              primitive.NewObjectID(),
		Title:           "Cozy riverside apartment",
		Description:     "Bright two-room apartment near the embankment",
		PublicationDate: time.Now().UTC(),
		City:            CityMoscow,
		PreviewImage:    "https://img.test/preview.jpg",
		Images: []string{
			"https://img.test/1.jpg", "https://img.test/2.jpg", "https://img.test/3.jpg",
			"https://img.test/4.jpg", "https://img.test/5.jpg", "https://img.test/6.jpg",
		},
		Type:        HousingApartment,
		Bedrooms:    2,
		MaxGuests:   4,
		Price:       12000,
		Amenities:   []Amenity{AmenityBreakfast, AmenityWasher},
		AuthorID:    author.ID,
		Coordinates: Coordinates{Latitude: 55.75, Longitude: 37.61},
	}
	f.offers[o.ID.Hex()] = o
	return o
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*Offer, error) {
	return f.offers[id], nil
}

func (f *fakeStore) FindByIDs(_ context.Context, ids []string) ([]*Offer, error) {
	var offers []*Offer
	for _, id := range ids {
		if o, ok := f.offers[id]; ok {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

func (f *fakeStore) FindPage(_ context.Context, limit, skip int) ([]*Offer, error) {
	f.lastLimit, f.lastSkip = limit, skip
	var offers []*Offer
	for _, o := range f.offers {
		offers = append(offers, o)
	}
	return offers, nil
}

func (f *fakeStore) FindPremiumByCity(_ context.Context, city string, limit, skip int) ([]*Offer, error) {
	f.lastLimit, f.lastSkip = limit, skip
	var offers []*Offer
	for _, o := range f.offers {
		if o.IsPremium && o.City == City(city) {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

func (f *fakeStore) Insert(_ context.Context, o *Offer) (*Offer, error) {
	o.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	f.offers[o.ID.Hex()] = o
	return o, nil
}

func (f *fakeStore) Update(_ context.Context, id string, upd Update) (*Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, nil
	}
	if upd.Title != nil {
		o.Title = *upd.Title
	}
	if upd.Price != nil {
		o.Price = *upd.Price
	}
	if upd.City != nil {
		o.City = *upd.City
	}
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	delete(f.offers, id)
	return nil
}

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) DeleteByOffer(_ context.Context, offerID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, offerID)
	return nil
}
