package session

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Repository holds the chats of one interactive user and tracks which one
// is active. Chats never expire.
type Repository struct {
	cache *cache.Cache

	mu     sync.Mutex
	seq    int
	active string
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Create adds a chat in the NoDocument state. A blank name becomes
// "Chat N" where N is the number of chats including this one.
func (r *Repository) Create(name string) *ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if name == "" {
		name = defaultChatName(r.cache.ItemCount() + 1)
	}
	c := newChatSession(uuid.NewString(), name, r.seq)
	r.cache.Set(c.ID, c, cache.NoExpiration)
	return c
}

// Get returns the chat with id.
func (r *Repository) Get(id string) (*ChatSession, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*ChatSession), true
	}
	return nil, false
}

// List returns all chats in creation order.
func (r *Repository) List() []*ChatSession {
	items := r.cache.Items()
	chats := make([]*ChatSession, 0, len(items))
	for _, it := range items {
		chats = append(chats, it.Object.(*ChatSession))
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].seq < chats[j].seq })
	return chats
}

// Len returns the number of chats.
func (r *Repository) Len() int { return r.cache.ItemCount() }

// Active returns the active chat, if one has been selected.
func (r *Repository) Active() (*ChatSession, bool) {
	r.mu.Lock()
	id := r.active
	r.mu.Unlock()
	if id == "" {
		return nil, false
	}
	return r.Get(id)
}

// SetActive makes id the active chat.
func (r *Repository) SetActive(id string) error {
	if _, ok := r.Get(id); !ok {
		return ErrSessionNotFound
	}
	r.mu.Lock()
	r.active = id
	r.mu.Unlock()
	return nil
}
