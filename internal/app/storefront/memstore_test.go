package storefront

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

// memStore хранилище в памяти с тем же контрактом, что и repository.Storage.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	products map[string]models.Product
	orders   map[string]models.Order
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]models.User),
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick выдаёт строго возрастающее время, чтобы сортировка по дате была детерминированной.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) CreateUser(_ context.Context, u models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, storage.ErrAlreadyExists
		}
	}
	u.UUID = uuid.NewString()
	u.CreatedAt = m.tick()
	u.UpdatedAt = u.CreatedAt
	m.users[u.UUID] = u
	return &u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) UpdateUserProfile(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.UUID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	email := strings.ToLower(user.Email)
	for id, other := range m.users {
		if id != user.UUID && other.Email == email {
			return nil, storage.ErrAlreadyExists
		}
	}
	u.FirstName, u.LastName, u.Email = user.FirstName, user.LastName, email
	u.UpdatedAt = m.tick()
	m.users[u.UUID] = u
	return &u, nil
}

func (m *memStore) UpdateUserPassword(_ context.Context, uid, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = hash
	m.users[uid] = u
	return nil
}

func (m *memStore) setRole(uid string, role models.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[uid]
	u.Role = role
	m.users[uid] = u
}

func (m *memStore) ListUsers(_ context.Context, limit, offset int) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*models.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memStore) CountUsers(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memStore) UserStats(_ context.Context, since time.Time) (models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st models.UserStats
	for _, u := range m.users {
		st.TotalUsers++
		if u.IsActive {
			st.ActiveUsers++
		} else {
			st.InactiveUsers++
		}
		if u.IsAdmin() {
			st.AdminUsers++
		} else {
			st.RegularUsers++
		}
		if !u.CreatedAt.Before(since) {
			st.RecentRegistrations++
		}
	}
	return st, nil
}

func (m *memStore) DeleteUsersByEmail(_ context.Context, emails []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range emails {
		for id, u := range m.users {
			if u.Email == strings.ToLower(e) {
				delete(m.users, id)
				n++
			}
		}
	}
	return n, nil
}

func (m *memStore) CreateProduct(_ context.Context, p models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = p
	return &p, nil
}

func (m *memStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) GetProductsByIDs(_ context.Context, ids []string) (map[string]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (m *memStore) ListProducts(_ context.Context, f models.ProductFilter) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateProduct(_ context.Context, p models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	p.UpdatedAt = m.tick()
	m.products[p.ID] = p
	return &p, nil
}

func (m *memStore) SetProductActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.IsActive = active
	m.products[id] = p
	return nil
}

func (m *memStore) CreateOrder(_ context.Context, o models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.NewString()
	o.CreatedAt = m.tick()
	o.UpdatedAt = o.CreatedAt
	o.Items = append([]models.OrderItem(nil), o.Items...)
	m.orders[o.ID] = o
	return &o, nil
}

func (m *memStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return &o, nil
}

func (m *memStore) ListOrdersByUser(_ context.Context, uid string) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, o := range m.orders {
		if o.UserUID != uid {
			continue
		}
		o := o
		o.Items = append([]models.OrderItem(nil), o.Items...)
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = m.tick()
	m.orders[id] = o
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return &o, nil
}
