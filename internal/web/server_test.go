package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/comment"
	"github.com/avolkov/six-cities/internal/favorite"
	"github.com/avolkov/six-cities/internal/offer"
	"github.com/avolkov/six-cities/internal/user"
)

const testSecret = "test-secret"

// memUsers is an in-memory user.Store.
type memUsers struct {
	users     map[string]*user.User
	favorites map[string][]string
}

func newMemUsers() *memUsers {
	return &memUsers{
		users:     make(map[string]*user.User),
		favorites: make(map[string][]string),
	}
}

func (m *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	return m.users[id], nil
}

func (m *memUsers) FindByIDs(_ context.Context, ids []string) ([]*user.User, error) {
	var users []*user.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Insert(_ context.Context, u *user.User) (*user.User, error) {
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID.Hex()] = u
	return u, nil
}

func (m *memUsers) SetAvatar(_ context.Context, id, avatar string) error {
	if u, ok := m.users[id]; ok {
		u.Avatar = avatar
	}
	return nil
}

func (m *memUsers) AddFavorite(_ context.Context, userID, offerID string) error {
	for _, id := range m.favorites[userID] {
		if id == offerID {
			return nil
		}
	}
	m.favorites[userID] = append(m.favorites[userID], offerID)
	return nil
}

func (m *memUsers) RemoveFavorite(_ context.Context, userID, offerID string) error {
	kept := m.favorites[userID][:0]
	for _, id := range m.favorites[userID] {
		if id != offerID {
			kept = append(kept, id)
		}
	}
	m.favorites[userID] = kept
	return nil
}

func (m *memUsers) IsFavorite(_ context.Context, userID, offerID string) (bool, error) {
	for _, id := range m.favorites[userID] {
		if id == offerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) FavoriteSet(ctx context.Context, userID string, offerIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(offerIDs))
	for _, id := range offerIDs {
		fav, _ := m.IsFavorite(ctx, userID, id)
		set[id] = fav
	}
	return set, nil
}

func (m *memUsers) FavoriteIDs(_ context.Context, userID string) ([]string, error) {
	return m.favorites[userID], nil
}

// memOffers is an in-memory offer.Store.
type memOffers struct {
	offers map[string]*offer.Offer
	order  []string
}

func newMemOffers() *memOffers {
	return &memOffers{offers: make(map[string]*offer.Offer)}
}

func (m *memOffers) FindByID(_ context.Context, id string) (*offer.Offer, error) {
	return m.offers[id], nil
}

func (m *memOffers) FindByIDs(_ context.Context, ids []string) ([]*offer.Offer, error) {
	var offers []*offer.Offer
	for _, id := range ids {
		if o, ok := m.offers[id]; ok {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

func (m *memOffers) FindPage(_ context.Context, limit, skip int) ([]*offer.Offer, error) {
	var offers []*offer.Offer
	for i := skip; i < len(m.order) && len(offers) < limit; i++ {
		offers = append(offers, m.offers[m.order[i]])
	}
	return offers, nil
}

func (m *memOffers) FindPremiumByCity(_ context.Context, city string, limit, skip int) ([]*offer.Offer, error) {
	var offers []*offer.Offer
	for _, id := range m.order {
		o := m.offers[id]
		if o.IsPremium && o.City == offer.City(city) && len(offers) < limit {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

func (m *memOffers) Insert(_ context.Context, o *offer.Offer) (*offer.Offer, error) {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	m.offers[o.ID.Hex()] = o
	m.order = append(m.order, o.ID.Hex())
	return o, nil
}

func (m *memOffers) Update(_ context.Context, id string, upd offer.Update) (*offer.Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return nil, nil
	}
	if upd.Title != nil {
		o.Title = *upd.Title
	}
	if upd.Price != nil {
		o.Price = *upd.Price
	}
	if upd.IsPremium != nil {
		o.IsPremium = *upd.IsPremium
	}
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}

func (m *memOffers) Delete(_ context.Context, id string) error {
	delete(m.offers, id)
	kept := m.order[:0]
	for _, oid := range m.order {
		if oid != id {
			kept = append(kept, oid)
		}
	}
	m.order = kept
	return nil
}

// memComments is an in-memory comment.Store.
type memComments struct {
	comments []*comment.Comment
}

func (m *memComments) Insert(_ context.Context, c *comment.Comment) (*comment.Comment, error) {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	m.comments = append(m.comments, c)
	return c, nil
}

func (m *memComments) FindByOffer(_ context.Context, offerID string, limit, skip int) ([]*comment.Comment, error) {
	var out []*comment.Comment
	for _, c := range m.comments {
		if c.OfferID.Hex() == offerID {
			out = append(out, c)
		}
	}
	if skip < len(out) {
		out = out[skip:]
	} else {
		out = nil
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memComments) DeleteByOffer(_ context.Context, offerID string) error {
	kept := m.comments[:0]
	for _, c := range m.comments {
		if c.OfferID.Hex() != offerID {
			kept = append(kept, c)
		}
	}
	m.comments = kept
	return nil
}

func (m *memComments) RatingByOffer(ctx context.Context, offerID string) (comment.Stats, error) {
	stats, err := m.RatingByOffers(ctx, []string{offerID})
	if err != nil {
		return comment.Stats{}, err
	}
	return stats[offerID], nil
}

func (m *memComments) RatingByOffers(_ context.Context, offerIDs []string) (map[string]comment.Stats, error) {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, c := range m.comments {
		hex := c.OfferID.Hex()
		sums[hex] += c.Rating
		counts[hex]++
	}
	out := make(map[string]comment.Stats)
	for _, id := range offerIDs {
		if counts[id] > 0 {
			out[id] = comment.Stats{Count: counts[id], Rating: float64(sums[id]) / float64(counts[id])}
		}
	}
	return out, nil
}

// testServer wires a full server over in-memory stores.
func testServer(t *testing.T) *Server {
	t.Helper()

	users := newMemUsers()
	offers := newMemOffers()
	comments := &memComments{}

	enricher := offer.NewEnricher(users, comments)
	userSvc := user.NewService(users, testSecret)
	offerSvc := offer.NewService(offers, enricher, comments)
	commentSvc := comment.NewService(comments, users)
	favSvc := favorite.NewService(users, offers, enricher)

	return NewServer(testSecret, t.TempDir(), userSvc, offerSvc, commentSvc, favSvc)
}

// do runs one request against the server and returns the recorder.
func do(srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		rd = bytes.NewReader(buf)
	}
	r := httptest.NewRequest(method, path, rd)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

// registerAndLogin creates a user over the API and returns a bearer token.
func registerAndLogin(t *testing.T, srv *Server, name string) string {
	t.Helper()

	w := do(srv, "POST", "/users", "", map[string]string{
		"name":     name,
		"email":    name + "@test.local",
		"password": "s3cret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("registering %s: status %d, body %s", name, w.Code, w.Body.String())
	}

	w = do(srv, "POST", "/users/login", "", map[string]string{
		"email":    name + "@test.local",
		"password": "s3cret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("logging in %s: status %d, body %s", name, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp.Token
}

// createOffer posts a valid offer and returns its id.
func createOffer(t *testing.T, srv *Server, token string) string {
	t.Helper()

	w := do(srv, "POST", "/offers", token, validOfferBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("creating offer: status %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding offer response: %v", err)
	}
	return resp.ID
}

func validOfferBody() map[string]interface{} {
	images := make([]string, 6)
	for i := range images {
		images[i] = fmt.Sprintf("https://img.test/%d.jpg", i+1)
	}
	return map[string]interface{}{
		"title":        "Cozy riverside apartment",
		"description":  "Bright two-room apartment near the embankment",
		"city":         "Moscow",
		"previewImage": "https://img.test/preview.jpg",
		"images":       images,
		"isPremium":    false,
		"type":         "apartment",
		"bedrooms":     2,
		"maxGuests":    4,
		"price":        12000,
		"amenities":    []string{"Breakfast", "Washer"},
		"coordinates":  map[string]float64{"latitude": 55.75, "longitude": 37.61},
	}
}
