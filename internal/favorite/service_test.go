package favorite

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/apperr"
	"github.com/avolkov/six-cities/internal/comment"
	"github.com/avolkov/six-cities/internal/offer"
	"github.com/avolkov/six-cities/internal/user"
)

// fakeUsers holds users and their favorites sets. It backs both the
// enricher's user store and the favorites store.
type fakeUsers struct {
	users     map[string]*user.User
	favorites map[string][]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:     make(map[string]*user.User),
		favorites: make(map[string][]string),
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

func (f *fakeUsers) FindByIDs(_ context.Context, ids []string) ([]*user.User, error) {
	var users []*user.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeUsers) AddFavorite(_ context.Context, userID, offerID string) error {
	for _, id := range f.favorites[userID] {
		if id == offerID {
			return nil
		}
	}
	f.favorites[userID] = append(f.favorites[userID], offerID)
	return nil
}

func (f *fakeUsers) RemoveFavorite(_ context.Context, userID, offerID string) error {
	kept := f.favorites[userID][:0]
	for _, id := range f.favorites[userID] {
		if id != offerID {
			kept = append(kept, id)
		}
	}
	f.favorites[userID] = kept
	return nil
}

func (f *fakeUsers) IsFavorite(_ context.Context, userID, offerID string) (bool, error) {
	for _, id := range f.favorites[userID] {
		if id == offerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) FavoriteSet(ctx context.Context, userID string, offerIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(offerIDs))
	for _, id := range offerIDs {
		fav, _ := f.IsFavorite(ctx, userID, id)
		set[id] = fav
	}
	return set, nil
}

func (f *fakeUsers) FavoriteIDs(_ context.Context, userID string) ([]string, error) {
	return f.favorites[userID], nil
}

type fakeOffers struct {
	offers map[string]*offer.Offer
}

func newFakeOffers() *fakeOffers {
	return &fakeOffers{offers: make(map[string]*offer.Offer)}
}

func (f *fakeOffers) add(author *user.User) *offer.Offer {
	o := &offer.Offer{
		ID:              primitive.NewObjectID(),
		Title:           "Cozy riverside apartment",
		Description:     "Bright two-room apartment near the embankment",
		PublicationDate: time.Now().UTC(),
		City:            offer.CityMoscow,
		Type:            offer.HousingApartment,
		Bedrooms:        2,
		MaxGuests:       4,
		Price:           12000,
		AuthorID:        author.ID,
	}
	f.offers[o.ID.Hex()] = o
	return o
}

func (f *fakeOffers) FindByID(_ context.Context, id string) (*offer.Offer, error) {
	return f.offers[id], nil
}

func (f *fakeOffers) FindByIDs(_ context.Context, ids []string) ([]*offer.Offer, error) {
	var offers []*offer.Offer
	for _, id := range ids {
		if o, ok := f.offers[id]; ok {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

type noStats struct{}

func (noStats) RatingByOffer(context.Context, string) (comment.Stats, error) {
	return comment.Stats{}, nil
}

func (noStats) RatingByOffers(context.Context, []string) (map[string]comment.Stats, error) {
	return map[string]comment.Stats{}, nil
}

func testService(t *testing.T) (*Service, *fakeOffers, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	offers := newFakeOffers()
	svc := NewService(users, offers, offer.NewEnricher(users, noStats{}))
	return svc, offers, users
}

func TestAddFavorite(t *testing.T) {
	svc, offers, users := testService(t)
	author := users.add("olga")
	viewer := users.add("ivan")
	o := offers.add(author)

	enriched, err := svc.Add(context.Background(), viewer.ID.Hex(), o.ID.Hex())
	if err != nil {
		t.Fatalf("adding favorite: %v", err)
	}
	if !enriched.IsFavorite {
		t.Error("expected the returned offer to report isFavorite true")
	}
}

func TestAddFavoriteIdempotent(t *testing.T) {
	svc, offers, users := testService(t)
	author := users.add("olga")
	viewer := users.add("ivan")
	o := offers.add(author)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Add(ctx, viewer.ID.Hex(), o.ID.Hex()); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	ids, _ := users.FavoriteIDs(ctx, viewer.ID.Hex())
	if len(ids) != 1 {
		t.Errorf("expected 1 favorite after repeated adds, got %d", len(ids))
	}
}

func TestAddFavoriteMissingOffer(t *testing.T) {
	svc, _, users := testService(t)
	viewer := users.add("ivan")

	_, err := svc.Add(context.Background(), viewer.ID.Hex(), primitive.NewObjectID().Hex())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveFavorite(t *testing.T) {
	svc, offers, users := testService(t)
	author := users.add("olga")
	viewer := users.add("ivan")
	o := offers.add(author)
	ctx := context.Background()

	if _, err := svc.Add(ctx, viewer.ID.Hex(), o.ID.Hex()); err != nil {
		t.Fatalf("adding favorite: %v", err)
	}

	enriched, err := svc.Remove(ctx, viewer.ID.Hex(), o.ID.Hex())
	if err != nil {
		t.Fatalf("removing favorite: %v", err)
	}
	if enriched.IsFavorite {
		t.Error("expected the returned offer to report isFavorite false")
	}

	// Removing again is a no-op, not an error.
	if _, err := svc.Remove(ctx, viewer.ID.Hex(), o.ID.Hex()); err != nil {
		t.Fatalf("repeated remove: %v", err)
	}
}

func TestListFavorites(t *testing.T) {
	svc, offers, users := testService(t)
	author := users.add("olga")
	viewer := users.add("ivan")
	a := offers.add(author)
	b := offers.add(author)
	offers.add(author) // never favorited
	ctx := context.Background()

	for _, o := range []*offer.Offer{a, b} {
		if _, err := svc.Add(ctx, viewer.ID.Hex(), o.ID.Hex()); err != nil {
			t.Fatalf("adding favorite: %v", err)
		}
	}

	got, err := svc.List(ctx, viewer.ID.Hex())
	if err != nil {
		t.Fatalf("listing favorites: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(got))
	}
	for _, e := range got {
		if !e.IsFavorite {
			t.Errorf("offer %s: expected isFavorite true in the favorites listing", e.ID)
		}
	}
}

func TestListFavoritesEmpty(t *testing.T) {
	svc, _, users := testService(t)
	viewer := users.add("ivan")

	got, err := svc.List(context.Background(), viewer.ID.Hex())
	if err != nil {
		t.Fatalf("listing favorites: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no favorites, got %d", len(got))
	}
}
