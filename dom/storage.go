package dom

// Storage is the session-scoped key value store the attribution slots live
// in. In a browser this is sessionStorage; headless embeddings inject their
// own. Values survive page loads within one session and are cleared when the
// session ends, which is the store owner's concern.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MapStorage is the in-memory Storage used by the replay driver and tests.
type MapStorage map[string]string

func (m MapStorage) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapStorage) Set(key, value string) {
	m[key] = value
}
