// Package local is the device-local store adapter. It persists the guest
// cart, wishlist and recently-viewed list as one JSON blob per namespaced
// slot, the same shape the storefront keeps in browser storage. Malformed
// stored JSON fails closed to an empty collection so a bad blob can never
// take the caller down.
package local

import (
	"encoding/json"
	"io"
	"log"
	"sync"

	"seesaw/internal/domain"
)

// Fixed slot names, one logical collection each.
const (
	cartSlot           = "seesaw-cart"
	wishlistSlot       = "seesaw-wishlist"
	recentlyViewedSlot = "seesaw-recently-viewed"
)

// Recently-viewed keeps the newest entries first, capped.
const recentlyViewedCap = 8

// Slots is the raw keyspace under the store: one durable JSON blob per key.
type Slots interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

// MemorySlots is the in-process Slots implementation, shared across
// concurrent requests for the same device.
type MemorySlots struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{blobs: make(map[string][]byte)}
}

func (m *MemorySlots) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	return blob, ok
}

func (m *MemorySlots) Set(key string, value []byte) {
	m.mu.Lock()
	m.blobs[key] = value
	m.mu.Unlock()
}

func (m *MemorySlots) Delete(key string) {
	m.mu.Lock()
	delete(m.blobs, key)
	m.mu.Unlock()
}

// Store reads and writes the per-device collections.
type Store struct {
	slots  Slots
	logger *log.Logger
}

func New(slots Slots, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{slots: slots, logger: logger}
}

// LoadCart returns the device's cart lines, or an empty slice when the slot
// is missing or holds malformed JSON.
func (s *Store) LoadCart(deviceID string) []domain.CartLine {
	blob, ok := s.slots.Get(slotKey(cartSlot, deviceID))
	if !ok {
		return nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(blob, &lines); err != nil {
		s.logger.Printf("local store: malformed %s blob for device %s, treating as empty: %v", cartSlot, deviceID, err)
		return nil
	}
	return lines
}

func (s *Store) SaveCart(deviceID string, lines []domain.CartLine) {
	s.save(cartSlot, deviceID, lines)
}

func (s *Store) ClearCart(deviceID string) {
	s.slots.Delete(slotKey(cartSlot, deviceID))
}

// LoadWishlist returns the device's wishlisted product ids, empty on a
// missing or malformed slot.
func (s *Store) LoadWishlist(deviceID string) []string {
	return s.loadIDs(wishlistSlot, deviceID)
}

func (s *Store) SaveWishlist(deviceID string, ids []string) {
	s.save(wishlistSlot, deviceID, ids)
}

func (s *Store) ClearWishlist(deviceID string) {
	s.slots.Delete(slotKey(wishlistSlot, deviceID))
}

// RecentlyViewed returns product ids most-recent-first.
func (s *Store) RecentlyViewed(deviceID string) []string {
	return s.loadIDs(recentlyViewedSlot, deviceID)
}

// TouchRecentlyViewed moves the product id to the front, dropping the oldest
// entry past the cap.
func (s *Store) TouchRecentlyViewed(deviceID, productID string) {
	if productID == "" {
		return
	}
	ids := s.RecentlyViewed(deviceID)
	next := make([]string, 0, recentlyViewedCap)
	next = append(next, productID)
	for _, id := range ids {
		if id == productID {
			continue
		}
		next = append(next, id)
		if len(next) == recentlyViewedCap {
			break
		}
	}
	s.save(recentlyViewedSlot, deviceID, next)
}

func (s *Store) loadIDs(slot, deviceID string) []string {
	blob, ok := s.slots.Get(slotKey(slot, deviceID))
	if !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(blob, &ids); err != nil {
		s.logger.Printf("local store: malformed %s blob for device %s, treating as empty: %v", slot, deviceID, err)
		return nil
	}
	return ids
}

func (s *Store) save(slot, deviceID string, value interface{}) {
	blob, err := json.Marshal(value)
	if err != nil {
		s.logger.Printf("local store: marshal %s for device %s: %v", slot, deviceID, err)
		return
	}
	s.slots.Set(slotKey(slot, deviceID), blob)
}

func slotKey(slot, deviceID string) string {
	return slot + ":" + deviceID
}
