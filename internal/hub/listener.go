package hub

// Listener receives the changes a service publishes. Services in this
// module only ever drive ProcessAdd.
type Listener[V any] interface {
	ProcessAdd(V) error
	ProcessRemove(V) error
	ProcessUpdate(V) error
}

// AddFunc adapts a plain function into a Listener.
type AddFunc[V any] func(V) error

func (f AddFunc[V]) ProcessAdd(v V) error {
	return f(v)
}

func (AddFunc[V]) ProcessRemove(V) error { return nil }

func (AddFunc[V]) ProcessUpdate(V) error { return nil }

// Service is a keyed store that fans every accepted value out to its listeners.
type Service[K comparable, V any] interface {
	GetData(key K) (V, error)
	OnMessage(value V) error
	AddListener(listener Listener[V])
	GetListeners() []Listener[V]
}

// Connector pushes values out of a service. Inbound connectors also expose
// a Subscribe method that feeds records into the service.
type Connector[V any] interface {
	Publish(value V) error
}

// NopConnector is used by services that never publish.
type NopConnector[V any] struct{}

func (NopConnector[V]) Publish(V) error { return nil }
