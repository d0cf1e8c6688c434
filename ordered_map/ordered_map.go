// Package orderedmap provides a map that remembers insertion order.
package orderedmap

type OrderedMap[K comparable, V any] struct {
	underlying map[K]V
	order      []K
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		underlying: make(map[K]V),
		order:      make([]K, 0),
	}
}

// Set stores value under key. A key keeps the position of its first insertion.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if _, exists := m.underlying[key]; !exists {
		m.order = append(m.order, key)
	}
	m.underlying[key] = value
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	value, ok := m.underlying[key]
	return value, ok
}

func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.underlying[key]
	return ok
}

func (m *OrderedMap[K, V]) Delete(key K) {
	if _, exists := m.underlying[key]; !exists {
		return
	}
	delete(m.underlying, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Rename moves the value stored under from to to, keeping its position.
// It reports false when from is missing or to is already taken.
func (m *OrderedMap[K, V]) Rename(from, to K) bool {
	value, ok := m.underlying[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	if _, taken := m.underlying[to]; taken {
		return false
	}
	delete(m.underlying, from)
	m.underlying[to] = value
	m.order[m.GetPlace(from)] = to
	return true
}

func (m *OrderedMap[K, V]) GetPlace(key K) int {
	for i, k := range m.order {
		if k == key {
			return i
		}
	}

	return -1
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.order))
	copy(keys, m.order)
	return keys
}

func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, len(m.order))
	for i, k := range m.order {
		values[i] = m.underlying[k]
	}
	return values
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.order)
}
