package cart

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/angelmondragon/rocketshoes-cart/internal/catalog"
	"github.com/angelmondragon/rocketshoes-cart/internal/notifications"
	"github.com/angelmondragon/rocketshoes-cart/internal/storage"
	"github.com/angelmondragon/rocketshoes-cart/pkg/logger"
	"github.com/angelmondragon/rocketshoes-cart/pkg/metrics"
	"github.com/rs/zerolog"
)

// DefaultStorageKey is the storage key the cart is persisted under.
const DefaultStorageKey = "@RocketShoes:cart"

// Catalog is the remote stock and product lookup used by the store.
type Catalog interface {
	GetStock(ctx context.Context, productID int) (*catalog.Stock, error)
	GetProduct(ctx context.Context, productID int) (*catalog.Product, error)
}

// Subscriber receives a copy of the cart after every committed change.
type Subscriber func(items []LineItem)

// Params wires a Store. Catalog and Storage are required.
type Params struct {
	Catalog  Catalog
	Storage  storage.KV
	Key      string
	Notifier notifications.Notifier
	Metrics  *metrics.CartMetrics
	Logger   *logger.Logger
}

// UpdateAmountInput is the argument to UpdateAmount.
type UpdateAmountInput struct {
	ProductID int
	Amount    int
}

// Store owns the cart. Every committed mutation is persisted before it becomes
// visible, so the in-memory cart always equals the stored one.
type Store struct {
	catalog  Catalog
	kv       storage.KV
	key      string
	notifier notifications.Notifier
	metrics  *metrics.CartMetrics
	logg     *logger.Logger

	locks *keyedMutex

	// mu guards items and orders storage writes.
	mu    sync.Mutex
	items []LineItem

	// publishMu keeps subscriber delivery in commit order.
	publishMu   sync.Mutex
	subMu       sync.Mutex
	subscribers map[uint64]Subscriber
	nextSubID   uint64
}

// Open builds a store and hydrates it from storage. A missing key yields an
// empty cart; an unreadable payload is logged and discarded.
func Open(ctx context.Context, p Params) (*Store, error) {
	if p.Catalog == nil {
		return nil, errors.New("cart: catalog is required")
	}
	if p.Storage == nil {
		return nil, errors.New("cart: storage is required")
	}
	if p.Key == "" {
		p.Key = DefaultStorageKey
	}
	if p.Logger == nil {
		p.Logger = logger.New(logger.Options{ServiceName: "cart", Level: zerolog.Disabled, Output: io.Discard})
	}

	s := &Store{
		catalog:     p.Catalog,
		kv:          p.Storage,
		key:         p.Key,
		notifier:    p.Notifier,
		metrics:     p.Metrics,
		logg:        p.Logger,
		locks:       newKeyedMutex(),
		items:       []LineItem{},
		subscribers: make(map[uint64]Subscriber),
	}

	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if found {
		items, err := decodeItems(raw)
		if err != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"storage_key": s.key, "error": err.Error()})
			s.logg.Warn(logCtx, "discarding unreadable stored cart")
		} else {
			s.items = items
		}
	}
	s.metrics.SetLineItems(len(s.items))
	return s, nil
}

// Items returns a copy of the current cart.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Subscribe registers fn for change notifications and returns a func that
// removes it. Subscribers run synchronously after a commit and must not call
// Add, Remove or UpdateAmount on the same goroutine.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

// Add puts one unit of productID in the cart, fetching the product record when
// it is not there yet. Stock is fetched first and caps the held amount of an
// existing line.
func (s *Store) Add(ctx context.Context, productID int) Result {
	start := time.Now()
	unlock := s.locks.Lock(productID)
	defer unlock()

	res := s.add(ctx, productID)
	s.finish(ctx, res, start)
	return res
}

func (s *Store) add(ctx context.Context, productID int) Result {
	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return s.reject(OperationAdd, productID, OutcomeFetchFailed, err)
	}

	// The per-id lock keeps this entry stable until commit.
	current := s.Items()
	i := indexOf(current, productID)
	// A new line always starts at one unit; stock only caps increments.
	if i >= 0 && current[i].Amount+1 > stock.Amount {
		return s.reject(OperationAdd, productID, OutcomeOutOfStock, nil)
	}

	var product *catalog.Product
	if i < 0 {
		product, err = s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return s.reject(OperationAdd, productID, OutcomeFetchFailed, err)
		}
	}

	return s.commit(ctx, OperationAdd, productID, func(items []LineItem) []LineItem {
		if i := indexOf(items, productID); i >= 0 {
			items[i].Amount++
			return items
		}
		return append(items, newLineItem(product))
	})
}

// Remove deletes productID from the cart.
func (s *Store) Remove(ctx context.Context, productID int) Result {
	start := time.Now()
	unlock := s.locks.Lock(productID)
	defer unlock()

	res := s.remove(ctx, productID)
	s.finish(ctx, res, start)
	return res
}

func (s *Store) remove(ctx context.Context, productID int) Result {
	if indexOf(s.Items(), productID) < 0 {
		return s.reject(OperationRemove, productID, OutcomeNotFound, nil)
	}
	return s.commit(ctx, OperationRemove, productID, func(items []LineItem) []LineItem {
		i := indexOf(items, productID)
		return slices.Delete(items, i, i+1)
	})
}

// UpdateAmount sets the amount of a product already in the cart. Amounts below
// one are ignored; amounts above stock are rejected.
func (s *Store) UpdateAmount(ctx context.Context, in UpdateAmountInput) Result {
	start := time.Now()
	unlock := s.locks.Lock(in.ProductID)
	defer unlock()

	res := s.updateAmount(ctx, in)
	s.finish(ctx, res, start)
	return res
}

func (s *Store) updateAmount(ctx context.Context, in UpdateAmountInput) Result {
	if indexOf(s.Items(), in.ProductID) < 0 {
		return s.reject(OperationUpdateAmount, in.ProductID, OutcomeNotFound, nil)
	}
	if in.Amount <= 0 {
		return s.reject(OperationUpdateAmount, in.ProductID, OutcomeIgnored, nil)
	}

	stock, err := s.catalog.GetStock(ctx, in.ProductID)
	if err != nil {
		return s.reject(OperationUpdateAmount, in.ProductID, OutcomeFetchFailed, err)
	}
	if in.Amount > stock.Amount {
		return s.reject(OperationUpdateAmount, in.ProductID, OutcomeOutOfStock, nil)
	}

	return s.commit(ctx, OperationUpdateAmount, in.ProductID, func(items []LineItem) []LineItem {
		items[indexOf(items, in.ProductID)].Amount = in.Amount
		return items
	})
}

// commit applies mutate to a copy of the cart, persists the result and only
// then swaps it in. On a storage error the cart is left as it was.
func (s *Store) commit(ctx context.Context, op Operation, productID int, mutate func([]LineItem) []LineItem) Result {
	s.mu.Lock()
	next := mutate(cloneItems(s.items))

	payload, err := encodeItems(next)
	if err == nil {
		err = s.kv.Set(ctx, s.key, payload)
	}
	if err != nil {
		current := cloneItems(s.items)
		s.mu.Unlock()
		return Result{Operation: op, Outcome: OutcomeStorageFailed, ProductID: productID, Items: current, Err: err}
	}

	s.items = next
	snapshot := cloneItems(next)
	s.publishMu.Lock()
	s.mu.Unlock()

	s.publish(snapshot)
	s.publishMu.Unlock()

	return Result{Operation: op, Outcome: OutcomeOK, ProductID: productID, Items: snapshot}
}

func (s *Store) publish(items []LineItem) {
	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subscribers))
	ids := make([]uint64, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, s.subscribers[id])
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(cloneItems(items))
	}
}

func (s *Store) reject(op Operation, productID int, outcome Outcome, err error) Result {
	return Result{Operation: op, Outcome: outcome, ProductID: productID, Items: s.Items(), Err: err}
}

// finish records metrics, logs the outcome and raises the user notice.
func (s *Store) finish(ctx context.Context, res Result, start time.Time) {
	s.metrics.ObserveOperation(string(res.Operation), string(res.Outcome), time.Since(start))
	s.metrics.SetLineItems(len(res.Items))

	logCtx := s.logg.WithOperation(ctx, string(res.Operation))
	logCtx = s.logg.WithProductID(logCtx, res.ProductID)
	logCtx = s.logg.WithField(logCtx, "outcome", string(res.Outcome))

	switch res.Outcome {
	case OutcomeOK:
		s.logg.Info(logCtx, "cart updated")
	case OutcomeIgnored:
		s.logg.Debug(logCtx, "cart operation ignored")
	case OutcomeFetchFailed, OutcomeStorageFailed:
		s.logg.Error(logCtx, "cart operation failed", res.Err)
	default:
		s.logg.Warn(logCtx, "cart operation rejected")
	}

	msg := res.Notice()
	if msg == "" || s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notifications.Notice{
		Level:     notifications.LevelError,
		Operation: string(res.Operation),
		Message:   msg,
	})
}
