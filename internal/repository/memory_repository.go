package repository

import (
	"context"
	"sort"
	"sync"
	"time"


	"taskly-be/internal/entities"
)

// memoryUserRepository keeps users in process memory. Used for local runs and tests.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entities.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]*entities.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, ErrDuplicateEmail
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	stored := *user
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID

	out := stored
	return &out, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r *memoryUserRepository) Update(_ context.Context, id string, upd UserUpdate) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !upd.IsEmpty() {
		if upd.Name != nil {
			user.Name = *upd.Name
		}
		if upd.PasswordHash != nil {
			user.PasswordHash = *upd.PasswordHash
		}
		user.UpdatedAt = r.now().UTC()
	}

	out := *user
	return &out, nil
}

type memoryTask struct {
	task entities.Task
	seq  uint64
}

// memoryTaskRepository keeps tasks in process memory. Used for local runs and tests.
type memoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*memoryTask
	seq   uint64
	now   func() time.Time
}

func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{
		tasks: make(map[string]*memoryTask),
		now:   time.Now,
	}
}

func (r *memoryTaskRepository) Create(_ context.Context, task *entities.Task) (*entities.Task, error) {
	if task.UserID == "" {
		return nil, ErrMissingOwner
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	r.seq++
	stored := &memoryTask{task: *task, seq: r.seq}
	stored.task.ID = id
	stored.task.CreatedAt = now
	stored.task.UpdatedAt = now
	r.tasks[stored.task.ID] = stored

	out := stored.task
	return &out, nil
}

func (r *memoryTaskRepository) Find(_ context.Context, q TaskQuery, page Pagination) ([]*entities.Task, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	// copy under the lock; Update mutates stored entries in place
	r.mu.RLock()
	matched := make([]memoryTask, 0, len(r.tasks))
	for _, m := range r.match(q) {
		matched = append(matched, *m)
	}
	r.mu.RUnlock()

	// newest first, later inserts win ties
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	tasks := []*entities.Task{}
	if page.Skip >= len(matched) {
		return tasks, nil
	}
	end := len(matched)
	if page.Limit > 0 && page.Skip+page.Limit < end {
		end = page.Skip + page.Limit
	}
	for i := range matched[page.Skip:end] {
		tasks = append(tasks, &matched[page.Skip+i].task)
	}

	return tasks, nil
}

func (r *memoryTaskRepository) Count(_ context.Context, q TaskQuery) (int64, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(q))), nil
}

func (r *memoryTaskRepository) FindOne(_ context.Context, q TaskQuery) (*entities.Task, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m := r.first(q)
	if m == nil {
		return nil, ErrNotFound
	}
	out := m.task
	return &out, nil
}

func (r *memoryTaskRepository) Update(_ context.Context, q TaskQuery, upd TaskUpdate) (*entities.Task, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.first(q)
	if m == nil {
		return nil, ErrNotFound
	}
	if !upd.IsEmpty() {
		if upd.Title != nil {
			m.task.Title = *upd.Title
		}
		if upd.Description != nil {
			m.task.Description = *upd.Description
		}
		if upd.Status != nil {
			m.task.Status = *upd.Status
		}
		m.task.UpdatedAt = r.now().UTC()
	}

	out := m.task
	return &out, nil
}

func (r *memoryTaskRepository) Delete(_ context.Context, q TaskQuery) error {
	if err := q.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.first(q)
	if m == nil {
		return ErrNotFound
	}
	delete(r.tasks, m.task.ID)
	return nil
}

// match must be called with the lock held
func (r *memoryTaskRepository) match(q TaskQuery) []*memoryTask {
	var out []*memoryTask
	for _, m := range r.tasks {
		if q.matches(&m.task) {
			out = append(out, m)
		}
	}
	return out
}

// first must be called with the lock held
func (r *memoryTaskRepository) first(q TaskQuery) *memoryTask {
	if q.id != "" {
		m, ok := r.tasks[q.id]
		if !ok || !q.matches(&m.task) {
			return nil
		}
		return m
	}
	var best *memoryTask
	for _, m := range r.tasks {
		if q.matches(&m.task) && (best == nil || m.seq > best.seq) {
			best = m
		}
	}
	return best
}
