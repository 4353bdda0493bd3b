package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"dreamsaver/internal/models/db_models"
)

type fakeProfileRepo struct {
	mu           sync.Mutex
	profiles     map[uuid.UUID]*db_models.Profile
	findErr      error
	incrementErr error
	increments   int
}

func newFakeProfileRepo(profiles ...*db_models.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[uuid.UUID]*db_models.Profile{}}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) FindByStripeCustomerID(_ context.Context, customerID string) (*db_models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.StripeCustomerID != nil && *p.StripeCustomerID == customerID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) IncrementInsightsUsed(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incrementErr != nil {
		return false, r.incrementErr
	}
	p, ok := r.profiles[id]
	if !ok || p.IsPro {
		return false, nil
	}
	p.InsightsUsed++
	r.increments++
	return true, nil
}

func (r *fakeProfileRepo) SetStripeCustomerID(_ context.Context, id uuid.UUID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[id]; ok {
		p.StripeCustomerID = &customerID
	}
	return nil
}

func (r *fakeProfileRepo) SetSubscription(_ context.Context, id uuid.UUID, isPro bool, subscriptionID *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return false, nil
	}
	p.IsPro = isPro
	p.StripeSubscriptionID = subscriptionID
	return true, nil
}

func (r *fakeProfileRepo) SetSubscriptionByCustomer(_ context.Context, customerID string, isPro bool, subscriptionID *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.StripeCustomerID != nil && *p.StripeCustomerID == customerID {
			p.IsPro = isPro
			p.StripeSubscriptionID = subscriptionID
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProfileRepo) get(id uuid.UUID) db_models.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.profiles[id]
}

type fakeDreamRepo struct {
	mu       sync.Mutex
	dreams   map[uuid.UUID]*db_models.Dream
	flagErr  error
	flagged  int
	created  []*db_models.Dream
	clockSec int64
}

func newFakeDreamRepo(dreams ...*db_models.Dream) *fakeDreamRepo {
	r := &fakeDreamRepo{dreams: map[uuid.UUID]*db_models.Dream{}, clockSec: 1700000000}
	for _, d := range dreams {
		r.dreams[d.ID] = d
	}
	return r
}

func (r *fakeDreamRepo) Create(_ context.Context, dream *db_models.Dream) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dream.ID == uuid.Nil {
		dream.ID = uuid.New()
	}
	r.clockSec++
	dream.CreatedAt = r.clockSec
	r.dreams[dream.ID] = dream
	r.created = append(r.created, dream)
	return nil
}

func (r *fakeDreamRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]db_models.Dream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.Dream
	for _, d := range r.dreams {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *fakeDreamRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*db_models.Dream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dreams[id]
	if !ok || d.UserID != userID {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDreamRepo) MarkHasInsight(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.flagErr != nil {
		return r.flagErr
	}
	if d, ok := r.dreams[id]; ok {
		d.HasInsight = true
	}
	r.flagged++
	return nil
}

type fakeInsightRepo struct {
	mu        sync.Mutex
	byDream   map[uuid.UUID]*db_models.Insight
	createErr error
	// concurrent simulates another process inserting between our read and write.
	concurrent *db_models.Insight
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{byDream: map[uuid.UUID]*db_models.Insight{}}
}

func (r *fakeInsightRepo) FindByDreamID(_ context.Context, dreamID uuid.UUID) (*db_models.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byDream[dreamID], nil
}

func (r *fakeInsightRepo) CreateIfAbsent(_ context.Context, insight *db_models.Insight) (*db_models.Insight, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, false, r.createErr
	}
	if r.concurrent != nil {
		r.byDream[r.concurrent.DreamID] = r.concurrent
		r.concurrent = nil
	}
	if existing, ok := r.byDream[insight.DreamID]; ok {
		return existing, false, nil
	}
	insight.ID = uuid.New()
	insight.CreatedAt = time.Now().Unix()
	r.byDream[insight.DreamID] = insight
	return insight, true, nil
}

type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	prompts  []string
	release  chan struct{}
}

func (g *fakeGenerator) Provider() string { return "fake" }

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	release := g.release
	g.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.response, g.err
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	e.calls++
	if e.err != nil {
		return pgvector.Vector{}, e.err
	}
	return pgvector.NewVector([]float32{float32(len(text)), 1, 0}), nil
}

type fakeEmbeddingRepo struct {
	saved   []*db_models.DreamEmbedding
	similar []db_models.SimilarDream
}

func (r *fakeEmbeddingRepo) Save(_ context.Context, e *db_models.DreamEmbedding) error {
	r.saved = append(r.saved, e)
	return nil
}

func (r *fakeEmbeddingRepo) FindSimilar(_ context.Context, _, _ uuid.UUID, limit int) ([]db_models.SimilarDream, error) {
	if len(r.similar) > limit {
		return r.similar[:limit], nil
	}
	return r.similar, nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*db_models.Account
	profiles *fakeProfileRepo
}

func newFakeAccountRepo(profiles *fakeProfileRepo) *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*db_models.Account{}, profiles: profiles}
}

func (r *fakeAccountRepo) CreateWithProfile(_ context.Context, account *db_models.Account, profile *db_models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	profile.ID = account.ID
	r.accounts[account.Email] = account
	r.profiles.mu.Lock()
	r.profiles.profiles[profile.ID] = profile
	r.profiles.mu.Unlock()
	return nil
}

func (r *fakeAccountRepo) FindById(_ context.Context, id uuid.UUID) (*db_models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[email], nil
}

func (r *fakeAccountRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == id {
			a.PasswordHash = hash
			return nil
		}
	}
	return errors.New("account not found")
}

type fakeMailer struct {
	mu      sync.Mutex
	welcome []string
	resets  map[string]string
	err     error
}

func newFakeMailer() *fakeMailer { return &fakeMailer{resets: map[string]string{}} }

func (m *fakeMailer) SendWelcome(_ context.Context, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcome = append(m.welcome, to)
	return m.err
}

func (m *fakeMailer) SendMailToResetPassword(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[to] = code
	return m.err
}
