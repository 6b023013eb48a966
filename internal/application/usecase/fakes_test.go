package usecase_test

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
)

// fakeCache cache en memoria con la misma semántica JSON del adaptador Redis.
type fakeCache struct {
	data    map[string][]byte
	deleted []string
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		delete(c.data, key)
		return false, nil
	}
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.data, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

// fakeNotifier registra los eventos enviados por tipo.
type fakeNotifier struct {
	inventoryUpdates []any
	priceUpdates     []any
	stockAlerts      []any
	priceAlerts      []any
}

func (n *fakeNotifier) SendInventoryUpdate(_ context.Context, data any) {
	n.inventoryUpdates = append(n.inventoryUpdates, data)
}

func (n *fakeNotifier) SendPriceUpdate(_ context.Context, data any) {
	n.priceUpdates = append(n.priceUpdates, data)
}

func (n *fakeNotifier) SendStockAlert(_ context.Context, data any) {
	n.stockAlerts = append(n.stockAlerts, data)
}

func (n *fakeNotifier) SendPriceAlert(_ context.Context, data any) {
	n.priceAlerts = append(n.priceAlerts, data)
}

// fakeInventoryRepo repositorio de inventario en memoria.
type fakeInventoryRepo struct {
	items  map[int64]*entity.InventoryItem
	nextID int64
	err    error
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: map[int64]*entity.InventoryItem{}, nextID: 1}
}

func (r *fakeInventoryRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	if r.err != nil {
		return r.err
	}
	item.ID = r.nextID
	r.nextID++
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeInventoryRepo) GetByID(_ context.Context, id int64) (*entity.InventoryItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeInventoryRepo) SKUExists(_ context.Context, sku string) (bool, error) {
	for _, item := range r.items {
		if item.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInventoryRepo) List(_ context.Context, limit, offset int) ([]*entity.InventoryItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var list []*entity.InventoryItem
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(list) >= limit {
			break
		}
		copied := *r.items[id]
		list = append(list, &copied)
	}
	return list, nil
}

func (r *fakeInventoryRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	if r.err != nil {
		return r.err
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeInventoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeInventoryRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for _, item := range r.items {
		if item.IsActive && item.AvailableQuantity <= threshold {
			copied := *item
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AvailableQuantity < list[j].AvailableQuantity })
	return list, nil
}

func (r *fakeInventoryRepo) Stats(_ context.Context) (*entity.InventoryStats, error) {
	stats := &entity.InventoryStats{}
	for _, item := range r.items {
		if !item.IsActive {
			continue
		}
		stats.TotalItems++
		switch {
		case item.StockQuantity <= 0:
			stats.OutOfStockCount++
		case item.StockQuantity <= item.MinStockLevel:
			stats.LowStockCount++
		default:
			stats.NormalStockCount++
		}
	}
	return stats, nil
}

// fakePriceRepo repositorio de precios en memoria (modelo append-only).
type fakePriceRepo struct {
	rows   []*entity.Price
	nextID int64
}

func newFakePriceRepo() *fakePriceRepo {
	return &fakePriceRepo{nextID: 1}
}

func (r *fakePriceRepo) Insert(_ context.Context, price *entity.Price) error {
	price.ID = r.nextID
	r.nextID++
	copied := *price
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakePriceRepo) GetCurrent(_ context.Context, inventoryID int64) (*entity.Price, error) {
	var current *entity.Price
	for _, row := range r.rows {
		if row.InventoryID != inventoryID || !row.IsActive {
			continue
		}
		if current == nil || row.EffectiveFrom.After(current.EffectiveFrom) ||
			(row.EffectiveFrom.Equal(current.EffectiveFrom) && row.ID > current.ID) {
			current = row
		}
	}
	if current == nil {
		return nil, nil
	}
	copied := *current
	return &copied, nil
}

func (r *fakePriceRepo) ListActive(_ context.Context, limit, offset int) ([]*entity.Price, error) {
	var list []*entity.Price
	for i := len(r.rows) - 1; i >= 0; i-- {
		if !r.rows[i].IsActive {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		if len(list) >= limit {
			break
		}
		copied := *r.rows[i]
		list = append(list, &copied)
	}
	return list, nil
}

func (r *fakePriceRepo) DeactivateCurrent(_ context.Context, inventoryID int64, until time.Time) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.InventoryID == inventoryID && row.IsActive {
			row.IsActive = false
			u := until
			row.EffectiveUntil = &u
			n++
		}
	}
	return n, nil
}

// fakeHistoryRepo log de transiciones en memoria.
type fakeHistoryRepo struct {
	rows   []*entity.PriceHistory
	nextID int64
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{nextID: 1}
}

func (r *fakeHistoryRepo) Insert(_ context.Context, h *entity.PriceHistory) error {
	h.ID = r.nextID
	r.nextID++
	copied := *h
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeHistoryRepo) ListByItem(_ context.Context, inventoryID int64, since time.Time) ([]*entity.PriceHistory, error) {
	var list []*entity.PriceHistory
	for i := len(r.rows) - 1; i >= 0; i-- {
		h := r.rows[i]
		if h.InventoryID == inventoryID && !h.ChangedAt.Before(since) {
			copied := *h
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (r *fakeHistoryRepo) ListSignificant(_ context.Context, thresholdPercent float64, since time.Time) ([]*entity.PriceHistory, error) {
	var list []*entity.PriceHistory
	for _, h := range r.rows {
		if h.ChangedAt.Before(since) {
			continue
		}
		abs := h.PriceChangePercent.Abs()
		if abs.InexactFloat64() >= thresholdPercent {
			copied := *h
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].PriceChangePercent.Abs().GreaterThan(list[j].PriceChangePercent.Abs())
	})
	return list, nil
}

// fakeTxRunner ejecuta el callback directo contra los fakes (sin transacción).
type fakeTxRunner struct {
	prices  *fakePriceRepo
	history *fakeHistoryRepo
	err     error
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	prices repository.PriceRepository,
	history repository.PriceHistoryRepository,
) error) error {
	if r.err != nil {
		return r.err
	}
	return fn(r.prices, r.history)
}
