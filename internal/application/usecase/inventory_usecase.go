package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/dto"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

// Niveles de alerta del rollup de stock bajo. "critical" aplica cuando el
// disponible cae a la mitad del mínimo o menos (política unificada, antes
// había dos umbrales divergentes).
const (
	AlertLevelOutOfStock = "out_of_stock"
	AlertLevelCritical   = "critical"
	AlertLevelLow        = "low"
)

// InventoryUseCase CRUD de inventario con cache-aside, invalidación y
// eventos en tiempo real. El cache nunca es dependencia de correctitud:
// sus fallas se registran y la petición sigue contra la base.
type InventoryUseCase struct {
	repo              repository.InventoryRepository
	cache             Cache
	notifier          Notifier
	log               *logger.Logger
	lowStockThreshold int
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	repo repository.InventoryRepository,
	cache Cache,
	notifier Notifier,
	log *logger.Logger,
	lowStockThreshold int,
) *InventoryUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &InventoryUseCase{
		repo:              repo,
		cache:             cache,
		notifier:          notifier,
		log:               log,
		lowStockThreshold: lowStockThreshold,
	}
}

// List lista ítems con paginación (cache-aside, TTL 300s).
func (uc *InventoryUseCase) List(ctx context.Context, skip, limit int) (*dto.InventoryListResponse, error) {
	skip, limit = dto.NormalizePage(skip, limit)
	key := keyInventoryList(skip, limit)

	var cached dto.InventoryListResponse
	if hit := uc.cacheGet(ctx, key, &cached); hit {
		uc.log.Debug().Str("key", key).Msg("listado de inventario desde cache")
		return &cached, nil
	}

	items, err := uc.repo.List(ctx, limit, skip)
	if err != nil {
		return nil, err
	}
	resp := &dto.InventoryListResponse{
		Items: make([]dto.InventoryResponse, 0, len(items)),
		Page:  dto.PageResponse{Skip: skip, Limit: limit},
	}
	for _, item := range items {
		resp.Items = append(resp.Items, *toInventoryResponse(item))
	}

	uc.cacheSet(ctx, key, resp, ttlInventoryList)
	uc.log.Debug().Int("count", len(items)).Msg("listado de inventario desde base de datos")
	return resp, nil
}

// GetByID obtiene un ítem por ID (cache-aside, TTL 600s). Devuelve (nil, nil) si no existe.
func (uc *InventoryUseCase) GetByID(ctx context.Context, id int64) (*dto.InventoryResponse, error) {
	key := keyInventoryItem(id)

	var cached dto.InventoryResponse
	if hit := uc.cacheGet(ctx, key, &cached); hit {
		uc.log.Debug().Int64("item_id", id).Msg("ítem de inventario desde cache")
		return &cached, nil
	}

	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	resp := toInventoryResponse(item)
	uc.cacheSet(ctx, key, resp, ttlInventoryItem)
	return resp, nil
}

// SKUExists indica si ya hay un ítem con ese SKU. Lookup puntual usado por la
// capa de endpoints para anticipar conflictos; la garantía real de unicidad
// la da el constraint de la base (23505 -> ErrDuplicate).
func (uc *InventoryUseCase) SKUExists(ctx context.Context, sku string) (bool, error) {
	return uc.repo.SKUExists(ctx, sku)
}

// Create crea un ítem nuevo. available_quantity se calcula en la creación.
func (uc *InventoryUseCase) Create(ctx context.Context, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockQuantity < 0 || in.ReservedQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStockLevel <= 0 {
		in.MinStockLevel = 10
	}
	if in.MaxStockLevel <= 0 {
		in.MaxStockLevel = 1000
	}

	now := time.Now()
	item := &entity.InventoryItem{
		SKU:              in.SKU,
		Name:             in.Name,
		Description:      in.Description,
		Category:         in.Category,
		StockQuantity:    in.StockQuantity,
		ReservedQuantity: in.ReservedQuantity,
		WeightGrams:      in.WeightGrams,
		Dimensions:       in.Dimensions,
		CostPrice:        in.CostPrice,
		MinStockLevel:    in.MinStockLevel,
		MaxStockLevel:    in.MaxStockLevel,
		IsActive:         true,
		IsTrackable:      true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if in.IsTrackable != nil {
		item.IsTrackable = *in.IsTrackable
	}
	item.ComputeAvailable()

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	uc.invalidateInventoryCaches(ctx, 0)
	uc.sendInventoryUpdate(ctx, item, "created")

	uc.log.Info().Int64("item_id", item.ID).Str("sku", item.SKU).Msg("ítem de inventario creado")
	return toInventoryResponse(item), nil
}

// Update aplica una actualización parcial. available_quantity se recalcula
// solo si cambió stock o reservado. Devuelve (nil, nil) si el ID no existe.
// Si el resultado queda en stock bajo, emite una alerta de stock.
func (uc *InventoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateInventoryRequest) (*dto.InventoryResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if in.SKU != nil {
		item.SKU = *in.SKU
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	stockTouched := false
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.StockQuantity = *in.StockQuantity
		stockTouched = true
	}
	if in.ReservedQuantity != nil {
		if *in.ReservedQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.ReservedQuantity = *in.ReservedQuantity
		stockTouched = true
	}
	if in.WeightGrams != nil {
		item.WeightGrams = in.WeightGrams
	}
	if in.Dimensions != nil {
		item.Dimensions = *in.Dimensions
	}
	if in.CostPrice != nil {
		item.CostPrice = *in.CostPrice
	}
	if in.MinStockLevel != nil {
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		item.MaxStockLevel = *in.MaxStockLevel
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if in.IsTrackable != nil {
		item.IsTrackable = *in.IsTrackable
	}
	if stockTouched {
		item.ComputeAvailable()
	}
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	uc.invalidateInventoryCaches(ctx, id)

	if item.IsLowStock() {
		uc.sendStockAlert(ctx, item)
	}
	uc.sendInventoryUpdate(ctx, item, "updated")

	uc.log.Info().Int64("item_id", id).Str("sku", item.SKU).Msg("ítem de inventario actualizado")
	return toInventoryResponse(item), nil
}

// Delete elimina un ítem (hard delete). Devuelve false si no existe.
func (uc *InventoryUseCase) Delete(ctx context.Context, id int64) (bool, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	uc.invalidateInventoryCaches(ctx, id)
	uc.sendInventoryUpdate(ctx, item, "deleted")

	uc.log.Info().Int64("item_id", id).Str("sku", item.SKU).Msg("ítem de inventario eliminado")
	return true, nil
}

// LowStockAlerts devuelve la vista normalizada de ítems con stock bajo
// (cache-aside, TTL 120s). threshold <= 0 usa el umbral configurado.
func (uc *InventoryUseCase) LowStockAlerts(ctx context.Context, threshold int) ([]dto.StockAlertResponse, error) {
	if threshold <= 0 {
		threshold = uc.lowStockThreshold
	}
	key := keyLowStock(threshold)

	var cached []dto.StockAlertResponse
	if hit := uc.cacheGet(ctx, key, &cached); hit {
		uc.log.Debug().Int("threshold", threshold).Msg("alertas de stock bajo desde cache")
		return cached, nil
	}

	items, err := uc.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.StockAlertResponse, 0, len(items))
	for _, item := range items {
		shortage := item.MinStockLevel - item.AvailableQuantity
		if shortage < 0 {
			shortage = 0
		}
		alerts = append(alerts, dto.StockAlertResponse{
			ID:             item.ID,
			SKU:            item.SKU,
			Name:           item.Name,
			CurrentStock:   item.AvailableQuantity,
			MinStockLevel:  item.MinStockLevel,
			ShortageAmount: shortage,
			AlertLevel:     alertLevel(item),
		})
	}

	uc.cacheSet(ctx, key, alerts, ttlLowStock)
	uc.log.Debug().Int("count", len(alerts)).Msg("alertas de stock bajo desde base de datos")
	return alerts, nil
}

// Stats agregado sobre ítems activos: conteos, porcentajes por bucket y valor
// total del inventario. Sin cache y O(n) sobre activos: pensado para uso
// batch periódico, no para el hot path.
func (uc *InventoryUseCase) Stats(ctx context.Context) (*dto.InventoryStatsResponse, error) {
	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.InventoryStatsResponse{
		TotalItems:       stats.TotalItems,
		OutOfStockCount:  stats.OutOfStockCount,
		LowStockCount:    stats.LowStockCount,
		NormalStockCount: stats.NormalStockCount,
		TotalValue:       stats.TotalValue,
	}
	if stats.TotalItems > 0 {
		total := float64(stats.TotalItems)
		resp.NormalStockPercentage = round1(float64(stats.NormalStockCount) / total * 100)
		resp.LowStockPercentage = round1(float64(stats.LowStockCount) / total * 100)
		resp.OutOfStockPercentage = round1(float64(stats.OutOfStockCount) / total * 100)
	}
	return resp, nil
}

// alertLevel política unificada de niveles: out_of_stock (disponible <= 0),
// critical (disponible <= mitad del mínimo), low en el resto.
func alertLevel(item *entity.InventoryItem) string {
	switch {
	case item.AvailableQuantity <= 0:
		return AlertLevelOutOfStock
	case item.AvailableQuantity <= item.MinStockLevel/2:
		return AlertLevelCritical
	default:
		return AlertLevelLow
	}
}

func (uc *InventoryUseCase) sendInventoryUpdate(ctx context.Context, item *entity.InventoryItem, action string) {
	uc.notifier.SendInventoryUpdate(ctx, dto.InventoryUpdateEvent{
		Action: action,
		Item: dto.InventoryEventItem{
			ID:                item.ID,
			SKU:               item.SKU,
			Name:              item.Name,
			StockQuantity:     item.StockQuantity,
			AvailableQuantity: item.AvailableQuantity,
			IsLowStock:        item.IsLowStock(),
			StockStatus:       item.StockStatus(),
		},
	})
}

func (uc *InventoryUseCase) sendStockAlert(ctx context.Context, item *entity.InventoryItem) {
	level := "warning"
	detail := "below minimum threshold"
	if item.AvailableQuantity <= 0 {
		level = "critical"
		detail = "out of stock"
	}
	uc.notifier.SendStockAlert(ctx, dto.StockAlertEvent{
		ItemID:        item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		CurrentStock:  item.AvailableQuantity,
		MinStockLevel: item.MinStockLevel,
		AlertLevel:    level,
		Message:       fmt.Sprintf("Stock level for %s is %s", item.SKU, detail),
	})
}

// cacheGet lee del cache tragando errores: una falla o un valor corrupto se
// registran como warning y cuentan como miss.
func (uc *InventoryUseCase) cacheGet(ctx context.Context, key string, dest any) bool {
	hit, err := uc.cache.Get(ctx, key, dest)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("fallo leyendo cache, se consulta la base")
		return false
	}
	return hit
}

// cacheSet escribe en cache best-effort.
func (uc *InventoryUseCase) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := uc.cache.Set(ctx, key, value, ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("fallo escribiendo cache")
	}
}

// invalidateInventoryCaches olvido best-effort del conjunto enumerado de claves.
func (uc *InventoryUseCase) invalidateInventoryCaches(ctx context.Context, itemID int64) {
	keys := inventoryInvalidationKeys(itemID)
	if err := uc.cache.Delete(ctx, keys...); err != nil {
		uc.log.Warn().Err(err).Msg("fallo invalidando caches de inventario")
	}
}

func toInventoryResponse(item *entity.InventoryItem) *dto.InventoryResponse {
	if item == nil {
		return nil
	}
	return &dto.InventoryResponse{
		ID:                item.ID,
		SKU:               item.SKU,
		Name:              item.Name,
		Description:       item.Description,
		Category:          item.Category,
		StockQuantity:     item.StockQuantity,
		ReservedQuantity:  item.ReservedQuantity,
		AvailableQuantity: item.AvailableQuantity,
		WeightGrams:       item.WeightGrams,
		Dimensions:        item.Dimensions,
		CostPrice:         item.CostPrice,
		MinStockLevel:     item.MinStockLevel,
		MaxStockLevel:     item.MaxStockLevel,
		IsActive:          item.IsActive,
		IsTrackable:       item.IsTrackable,
		IsLowStock:        item.IsLowStock(),
		StockStatus:       item.StockStatus(),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
