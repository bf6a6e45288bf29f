package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"claims-platform/internal/entities"
	"claims-platform/pkg/constants"
	apperrors "claims-platform/pkg/errors"
)

// The fakes mirror the guarded-update semantics of the SQL layer under a
// mutex, which is what makes the concurrency tests meaningful.

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*entities.Order

	failAssign int // fail the next n AssignIfUnassigned calls
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*entities.Order), nextID: 1}
}

func (r *fakeOrderRepo) add(order *entities.Order) *entities.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == 0 {
		order.ID = r.nextID
		r.nextID++
	}
	if order.State == "" {
		order.State = constants.OrderStateUnassigned
	}
	r.orders[order.ID] = order
	return order
}

func (r *fakeOrderRepo) Create(ctx context.Context, tx pgx.Tx, order *entities.Order) (int64, error) {
	copied := *order
	copied.State = constants.OrderStateUnassigned
	return r.add(&copied).ID, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id int64) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Order, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entities.Order
	for _, o := range r.orders {
		copied := *o
		list = append(list, &copied)
	}
	return list, uint64(len(list)), nil
}

func (r *fakeOrderRepo) AssignIfUnassigned(ctx context.Context, orderID int64, ref entities.AssigneeRef) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAssign > 0 {
		r.failAssign--
		return false, fmt.Errorf("storage unavailable")
	}
	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	if order.AssignedCraftsmanID != nil || order.AssignedPartnerID != nil ||
		order.State == constants.OrderStateBroadcasting {
		return false, nil
	}
	applyRef(order, ref)
	return true, nil
}

func (r *fakeOrderRepo) MarkBroadcasting(ctx context.Context, orderID int64, broadcastID string, deadline time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.State != constants.OrderStateUnassigned ||
		order.AssignedCraftsmanID != nil || order.AssignedPartnerID != nil {
		return false, nil
	}
	order.State = constants.OrderStateBroadcasting
	order.BroadcastID = &broadcastID
	order.BroadcastDeadline = &deadline
	return true, nil
}

func (r *fakeOrderRepo) CompleteBroadcast(ctx context.Context, orderID int64, ref entities.AssigneeRef) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.State != constants.OrderStateBroadcasting ||
		order.AssignedCraftsmanID != nil || order.AssignedPartnerID != nil {
		return false, nil
	}
	applyRef(order, ref)
	order.BroadcastDeadline = nil
	return true, nil
}

func (r *fakeOrderRepo) ExpireBroadcast(ctx context.Context, orderID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.State != constants.OrderStateBroadcasting {
		return false, nil
	}
	order.State = constants.OrderStateExpired
	order.BroadcastDeadline = nil
	return true, nil
}

func (r *fakeOrderRepo) FindExpiredBroadcasting(ctx context.Context, now time.Time, limit int) ([]*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*entities.Order
	for _, o := range r.orders {
		if o.State == constants.OrderStateBroadcasting &&
			o.BroadcastDeadline != nil && o.BroadcastDeadline.Before(now) {
			copied := *o
			due = append(due, &copied)
		}
	}
	return due, nil
}

func applyRef(order *entities.Order, ref entities.AssigneeRef) {
	id := ref.ID
	if ref.Kind == entities.AssigneeKindInternal {
		order.AssignedCraftsmanID = &id
		order.State = constants.OrderStateAssignedInternal
	} else {
		order.AssignedPartnerID = &id
		order.State = constants.OrderStateAssignedExternal
	}
}

func farFuture() time.Time { return time.Now().Add(time.Hour) }

type fakeCraftsmanRepo struct {
	craftsmen map[int64]*entities.Craftsman
	failPool  bool
}

func newFakeCraftsmanRepo(craftsmen ...*entities.Craftsman) *fakeCraftsmanRepo {
	r := &fakeCraftsmanRepo{craftsmen: make(map[int64]*entities.Craftsman)}
	for _, c := range craftsmen {
		r.craftsmen[c.ID] = c
	}
	return r
}

func (r *fakeCraftsmanRepo) Create(ctx context.Context, tx pgx.Tx, c *entities.Craftsman) (int64, error) {
	id := int64(len(r.craftsmen) + 1)
	c.ID = id
	r.craftsmen[id] = c
	return id, nil
}

func (r *fakeCraftsmanRepo) FindByID(ctx context.Context, id int64) (*entities.Craftsman, error) {
	c, ok := r.craftsmen[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (r *fakeCraftsmanRepo) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Craftsman, uint64, error) {
	var list []*entities.Craftsman
	for _, c := range r.craftsmen {
		list = append(list, c)
	}
	return list, uint64(len(list)), nil
}

func (r *fakeCraftsmanRepo) FindByProfession(ctx context.Context, profession string, limit int) ([]*entities.Craftsman, error) {
	if r.failPool {
		return nil, fmt.Errorf("storage unavailable")
	}
	var list []*entities.Craftsman
	for _, c := range r.craftsmen {
		if c.Verified && c.HasProfession(profession) {
			list = append(list, c)
		}
	}
	// Deterministic order: best rating first, id breaks ties.
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].Rating > list[i].Rating ||
				(list[j].Rating == list[i].Rating && list[j].ID < list[i].ID) {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
	return list, nil
}

type fakePartnerRepo struct {
	partners     map[int64]*entities.Partner
	failCoverage bool
}

func newFakePartnerRepo(partners ...*entities.Partner) *fakePartnerRepo {
	r := &fakePartnerRepo{partners: make(map[int64]*entities.Partner)}
	for _, p := range partners {
		r.partners[p.ID] = p
	}
	return r
}

func (r *fakePartnerRepo) Create(ctx context.Context, tx pgx.Tx, p *entities.Partner) (int64, error) {
	id := int64(len(r.partners) + 1)
	p.ID = id
	r.partners[id] = p
	return id, nil
}

func (r *fakePartnerRepo) FindByID(ctx context.Context, id int64) (*entities.Partner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (r *fakePartnerRepo) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Partner, uint64, error) {
	var list []*entities.Partner
	for _, p := range r.partners {
		list = append(list, p)
	}
	return list, uint64(len(list)), nil
}

func (r *fakePartnerRepo) sorted(profession string) []*entities.Partner {
	var list []*entities.Partner
	for _, p := range r.partners {
		if p.Verified && entities.PartnerAssignee(p).HasProfession(profession) {
			list = append(list, p)
		}
	}
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].Rating > list[i].Rating ||
				(list[j].Rating == list[i].Rating && list[j].ID < list[i].ID) {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
	return list
}

func (r *fakePartnerRepo) FindByProfessionAndCoverage(ctx context.Context, profession, zipPrefix string, limit int) ([]*entities.Partner, error) {
	if r.failCoverage {
		return nil, fmt.Errorf("malformed array literal")
	}
	var list []*entities.Partner
	for _, p := range r.sorted(profession) {
		if zipPrefix != "" && !entities.PartnerAssignee(p).CoversZip(zipPrefix) {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

func (r *fakePartnerRepo) FindByProfession(ctx context.Context, profession string, limit int) ([]*entities.Partner, error) {
	return r.sorted(profession), nil
}

type fakeRuleRepo struct {
	rules []*entities.RoutingRule
	fail  bool
}

func (r *fakeRuleRepo) Create(ctx context.Context, tx pgx.Tx, rule *entities.RoutingRule) (int64, error) {
	rule.ID = int64(len(r.rules) + 1)
	r.rules = append(r.rules, rule)
	return rule.ID, nil
}

func (r *fakeRuleRepo) Update(ctx context.Context, tx pgx.Tx, rule *entities.RoutingRule) error {
	for i, existing := range r.rules {
		if existing.ID == rule.ID {
			r.rules[i] = rule
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeRuleRepo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	for i, existing := range r.rules {
		if existing.ID == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeRuleRepo) FindByID(ctx context.Context, id int64) (*entities.RoutingRule, error) {
	for _, rule := range r.rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeRuleRepo) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.RoutingRule, uint64, error) {
	return r.rules, uint64(len(r.rules)), nil
}

func (r *fakeRuleRepo) FindActiveByZipAndProfession(ctx context.Context, zipPrefix, profession string, limit int) ([]*entities.RoutingRule, error) {
	if r.fail {
		return nil, fmt.Errorf("storage unavailable")
	}
	var matched []*entities.RoutingRule
	for _, rule := range r.rules {
		if rule.Active && rule.ZipPrefix == zipPrefix && rule.Profession == profession {
			matched = append(matched, rule)
		}
	}
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].Priority < matched[i].Priority {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeSettingsRepo struct {
	rows []*entities.AssignmentSettings
	fail bool
}

func (r *fakeSettingsRepo) Create(ctx context.Context, tx pgx.Tx, s *entities.AssignmentSettings) (int64, error) {
	s.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, s)
	return s.ID, nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, tx pgx.Tx, s *entities.AssignmentSettings) error {
	for i, existing := range r.rows {
		if existing.ID == s.ID {
			r.rows[i] = s
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeSettingsRepo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	for i, existing := range r.rows {
		if existing.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeSettingsRepo) FindByID(ctx context.Context, id int64) (*entities.AssignmentSettings, error) {
	for _, s := range r.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeSettingsRepo) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.AssignmentSettings, uint64, error) {
	return r.rows, uint64(len(r.rows)), nil
}

func (r *fakeSettingsRepo) FindActiveByProfessionAndZip(ctx context.Context, profession, zipPrefix string) (*entities.AssignmentSettings, error) {
	if r.fail {
		return nil, fmt.Errorf("storage unavailable")
	}
	for _, s := range r.rows {
		if s.Active && s.Profession == profession && s.ZipPrefix != nil && *s.ZipPrefix == zipPrefix {
			return s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeSettingsRepo) FindActiveGlobal(ctx context.Context, profession string) (*entities.AssignmentSettings, error) {
	if r.fail {
		return nil, fmt.Errorf("storage unavailable")
	}
	for _, s := range r.rows {
		if s.Active && s.Profession == profession && s.ZipPrefix == nil {
			return s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers []*entities.BroadcastOffer
}

func (r *fakeOfferRepo) CreateMany(ctx context.Context, tx pgx.Tx, orderID int64, broadcastID string, candidates []entities.Assignee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range candidates {
		r.offers = append(r.offers, &entities.BroadcastOffer{
			ID:          int64(len(r.offers) + 1),
			OrderID:     orderID,
			BroadcastID: broadcastID,
			Kind:        c.Kind,
			AssigneeID:  c.ID,
		})
	}
	return nil
}

func (r *fakeOfferRepo) Exists(ctx context.Context, orderID int64, kind entities.AssigneeKind, assigneeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.offers {
		if o.OrderID == orderID && o.Kind == kind && o.AssigneeID == assigneeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOfferRepo) ListByOrder(ctx context.Context, orderID int64) ([]*entities.BroadcastOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entities.BroadcastOffer
	for _, o := range r.offers {
		if o.OrderID == orderID {
			list = append(list, o)
		}
	}
	return list, nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	value, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("cache miss")
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}
