package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/dto"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/repository"
	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

// Tipos de alerta de cambio de precio (compartidos por los dos caminos de escritura).
const (
	PriceAlertMajorChange         = "major_change"
	PriceAlertSignificantIncrease = "significant_increase"
	PriceAlertSignificantDecrease = "significant_decrease"
)

var twenty = decimal.NewFromInt(20)

// PriceUseCase gestión de precios con modelo temporal append-only: todo
// cambio cierra la ventana del precio vigente e inserta una fila nueva, y
// queda registrado en el log inmutable de transiciones.
type PriceUseCase struct {
	prices       repository.PriceRepository
	history      repository.PriceHistoryRepository
	inventory    repository.InventoryRepository
	txRunner     PriceTxRunner
	cache        Cache
	notifier     Notifier
	log          *logger.Logger
	alertPercent decimal.Decimal
}

// NewPriceUseCase construye el caso de uso. alertThresholdPercent es el |Δ%|
// a partir del cual un cambio dispara alerta (default 5).
func NewPriceUseCase(
	prices repository.PriceRepository,
	history repository.PriceHistoryRepository,
	inventory repository.InventoryRepository,
	txRunner PriceTxRunner,
	cache Cache,
	notifier Notifier,
	log *logger.Logger,
	alertThresholdPercent float64,
) *PriceUseCase {
	if alertThresholdPercent <= 0 {
		alertThresholdPercent = 5
	}
	return &PriceUseCase{
		prices:       prices,
		history:      history,
		inventory:    inventory,
		txRunner:     txRunner,
		cache:        cache,
		notifier:     notifier,
		log:          log,
		alertPercent: decimal.NewFromFloat(alertThresholdPercent),
	}
}

// List lista precios vigentes (solo activos, effective_from desc). Sin cache.
func (uc *PriceUseCase) List(ctx context.Context, skip, limit int) (*dto.PriceListResponse, error) {
	skip, limit = dto.NormalizePage(skip, limit)
	prices, err := uc.prices.ListActive(ctx, limit, skip)
	if err != nil {
		return nil, err
	}
	resp := &dto.PriceListResponse{
		Items: make([]dto.PriceResponse, 0, len(prices)),
		Page:  dto.PageResponse{Skip: skip, Limit: limit},
	}
	for _, p := range prices {
		resp.Items = append(resp.Items, *toPriceResponse(p))
	}
	uc.log.Debug().Int("count", len(prices)).Msg("listado de precios vigentes")
	return resp, nil
}

// CurrentPrice obtiene el precio vigente de un ítem (cache-aside, TTL 1800s).
// Vigente = activo con effective_from <= ahora; gana el effective_from más
// reciente y, a igualdad, el ID más alto. Devuelve (nil, nil) si no hay.
func (uc *PriceUseCase) CurrentPrice(ctx context.Context, itemID int64) (*dto.PriceResponse, error) {
	key := keyPriceCurrent(itemID)

	var cached dto.PriceResponse
	if hit := uc.cacheGet(ctx, key, &cached); hit {
		uc.log.Debug().Int64("item_id", itemID).Msg("precio vigente desde cache")
		return &cached, nil
	}

	price, err := uc.prices.GetCurrent(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, nil
	}

	resp := toPriceResponse(price)
	uc.cacheSet(ctx, key, resp, ttlPriceCurrent)
	return resp, nil
}

// CreateOrUpdate fija el precio vigente de un ítem. Si ya existe uno activo
// lo desactiva (effective_until = ahora), inserta la fila nueva y registra la
// transición en el historial — todo en una transacción. Cambios con
// |Δ%| >= umbral disparan alerta. Siempre invalida cache y emite price_update.
func (uc *PriceUseCase) CreateOrUpdate(ctx context.Context, in dto.CreatePriceRequest) (*dto.PriceResponse, error) {
	if in.InventoryID <= 0 || in.SellingPrice.LessThanOrEqual(decimal.Zero) || in.CostPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.inventory.GetByID(ctx, in.InventoryID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.prices.GetCurrent(ctx, in.InventoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	currency := in.Currency
	if currency == "" {
		currency = "JPY"
	}
	price := &entity.Price{
		InventoryID:      in.InventoryID,
		SellingPrice:     in.SellingPrice,
		CostPrice:        in.CostPrice,
		DiscountPrice:    in.DiscountPrice,
		Currency:         currency,
		MarginPercent:    in.MarginPercent,
		MarkupPercent:    in.MarkupPercent,
		IsActive:         true,
		RequiresApproval: in.RequiresApproval,
		EffectiveFrom:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	reason := in.ChangeReason
	if reason == "" {
		reason = "manual_update"
	}
	if err := uc.appendPrice(ctx, price, existing, reason, now); err != nil {
		return nil, err
	}

	action := "created"
	if existing != nil {
		action = "updated"
		uc.maybeSendPriceAlert(ctx, item, existing.SellingPrice, price)
	}

	uc.invalidatePriceCaches(ctx, in.InventoryID)
	uc.sendPriceUpdate(ctx, price, action)

	uc.log.Info().
		Int64("item_id", in.InventoryID).
		Str("new_price", price.SellingPrice.String()).
		Msg("precio vigente registrado")
	return toPriceResponse(price), nil
}

// Update aplica una actualización parcial al precio vigente de un ítem.
// La modificación también se materializa como fila nueva (mismo modelo
// append-only que CreateOrUpdate); si cambió selling_price se registra la
// transición y se evalúa la alerta. Devuelve (nil, nil) si el ítem no tiene
// precio vigente.
func (uc *PriceUseCase) Update(ctx context.Context, itemID int64, in dto.UpdatePriceRequest) (*dto.PriceResponse, error) {
	current, err := uc.prices.GetCurrent(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	now := time.Now()
	next := &entity.Price{
		InventoryID:      itemID,
		SellingPrice:     current.SellingPrice,
		CostPrice:        current.CostPrice,
		DiscountPrice:    current.DiscountPrice,
		Currency:         current.Currency,
		MarginPercent:    current.MarginPercent,
		MarkupPercent:    current.MarkupPercent,
		IsActive:         true,
		RequiresApproval: current.RequiresApproval,
		EffectiveFrom:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	priceChanged := false
	if in.SellingPrice != nil {
		if in.SellingPrice.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		priceChanged = !in.SellingPrice.Equal(current.SellingPrice)
		next.SellingPrice = *in.SellingPrice
	}
	if in.CostPrice != nil {
		if in.CostPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		next.CostPrice = *in.CostPrice
	}
	if in.DiscountPrice != nil {
		next.DiscountPrice = in.DiscountPrice
	}
	if in.Currency != nil {
		next.Currency = *in.Currency
	}
	if in.MarginPercent != nil {
		next.MarginPercent = in.MarginPercent
	}
	if in.MarkupPercent != nil {
		next.MarkupPercent = in.MarkupPercent
	}
	if in.RequiresApproval != nil {
		next.RequiresApproval = *in.RequiresApproval
	}

	reason := in.ChangeReason
	if reason == "" {
		reason = "price_update"
	}

	// El historial solo registra transiciones de selling_price.
	prior := current
	if !priceChanged {
		prior = nil
	}
	if err := uc.appendPrice(ctx, next, prior, reason, now); err != nil {
		return nil, err
	}

	if priceChanged {
		item, err := uc.inventory.GetByID(ctx, itemID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("item_id", itemID).Msg("no se pudo leer el ítem para la alerta de precio")
		}
		uc.maybeSendPriceAlert(ctx, item, current.SellingPrice, next)
	}

	uc.invalidatePriceCaches(ctx, itemID)
	uc.sendPriceUpdate(ctx, next, "updated")

	uc.log.Info().
		Int64("item_id", itemID).
		Str("new_price", next.SellingPrice.String()).
		Msg("precio actualizado")
	return toPriceResponse(next), nil
}

// History devuelve las transiciones de precio de un ítem de los últimos
// days días, descendente por changed_at (cache-aside, TTL 3600s).
func (uc *PriceUseCase) History(ctx context.Context, itemID int64, days int) ([]dto.PriceHistoryResponse, error) {
	if days <= 0 {
		days = 30
	}
	key := keyPriceHistory(itemID, days)

	var cached []dto.PriceHistoryResponse
	if hit := uc.cacheGet(ctx, key, &cached); hit {
		uc.log.Debug().Int64("item_id", itemID).Msg("historial de precios desde cache")
		return cached, nil
	}

	since := time.Now().AddDate(0, 0, -days)
	rows, err := uc.history.ListByItem(ctx, itemID, since)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.PriceHistoryResponse, 0, len(rows))
	for _, h := range rows {
		resp = append(resp, toPriceHistoryResponse(h))
	}

	uc.cacheSet(ctx, key, resp, ttlPriceHistory)
	uc.log.Debug().Int64("item_id", itemID).Int("count", len(resp)).Msg("historial de precios desde base de datos")
	return resp, nil
}

// SignificantChanges devuelve transiciones con |Δ%| >= thresholdPercent en
// las últimas hours horas, descendente por magnitud. El filtro es sobre el
// valor absoluto: una caída grande cuenta igual que un aumento grande.
// Sin cache.
func (uc *PriceUseCase) SignificantChanges(ctx context.Context, thresholdPercent float64, hours int) ([]dto.PriceHistoryResponse, error) {
	if thresholdPercent <= 0 {
		thresholdPercent = 5
	}
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	rows, err := uc.history.ListSignificant(ctx, thresholdPercent, since)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PriceHistoryResponse, 0, len(rows))
	for _, h := range rows {
		resp = append(resp, toPriceHistoryResponse(h))
	}
	uc.log.Debug().
		Float64("threshold", thresholdPercent).
		Int("count", len(resp)).
		Msg("cambios de precio significativos")
	return resp, nil
}

// appendPrice ejecuta la transición en una transacción: cerrar la ventana del
// precio anterior (si hay), insertar la fila nueva y, si prior != nil,
// registrar la transición en el historial.
func (uc *PriceUseCase) appendPrice(ctx context.Context, price *entity.Price, prior *entity.Price, reason string, now time.Time) error {
	return uc.txRunner.Run(ctx, func(
		prices repository.PriceRepository,
		history repository.PriceHistoryRepository,
	) error {
		if _, err := prices.DeactivateCurrent(ctx, price.InventoryID, now); err != nil {
			return err
		}
		if err := prices.Insert(ctx, price); err != nil {
			return err
		}
		if prior != nil {
			change := entity.NewPriceChange(price.InventoryID, prior.SellingPrice, price.SellingPrice, reason, "manual", now)
			if err := history.Insert(ctx, change); err != nil {
				return err
			}
			uc.log.Info().
				Int64("item_id", price.InventoryID).
				Str("change_percent", change.PriceChangePercent.Round(2).String()).
				Msg("transición de precio registrada")
		}
		return nil
	})
}

// maybeSendPriceAlert emite la alerta si |Δ%| alcanza el umbral configurado.
// Clasificación: >= 20% major_change; si no, aumento -> significant_increase,
// caída -> significant_decrease.
func (uc *PriceUseCase) maybeSendPriceAlert(ctx context.Context, item *entity.InventoryItem, oldPrice decimal.Decimal, price *entity.Price) {
	if oldPrice.LessThanOrEqual(decimal.Zero) {
		return
	}
	change := price.SellingPrice.Sub(oldPrice)
	percent := change.Div(oldPrice).Mul(decimal.NewFromInt(100))
	if percent.Abs().LessThan(uc.alertPercent) {
		return
	}

	alertType := PriceAlertSignificantDecrease
	switch {
	case percent.Abs().GreaterThanOrEqual(twenty):
		alertType = PriceAlertMajorChange
	case price.SellingPrice.GreaterThan(oldPrice):
		alertType = PriceAlertSignificantIncrease
	}

	alert := dto.PriceChangeAlertEvent{
		InventoryID:   price.InventoryID,
		OldPrice:      oldPrice,
		NewPrice:      price.SellingPrice,
		ChangePercent: percent,
		ChangeAmount:  change,
		AlertType:     alertType,
	}
	if item != nil {
		alert.SKU = item.SKU
		alert.ItemName = item.Name
	}
	uc.notifier.SendPriceAlert(ctx, alert)
}

func (uc *PriceUseCase) sendPriceUpdate(ctx context.Context, price *entity.Price, action string) {
	uc.notifier.SendPriceUpdate(ctx, dto.PriceUpdateEvent{
		Action: action,
		Price: dto.PriceEventPrice{
			ID:            price.ID,
			InventoryID:   price.InventoryID,
			SellingPrice:  price.SellingPrice,
			CostPrice:     price.CostPrice,
			DiscountPrice: price.DiscountPrice,
			FinalPrice:    price.FinalPrice(),
			MarginPercent: price.CalculatedMargin(),
			EffectiveFrom: price.EffectiveFrom,
		},
	})
}

func (uc *PriceUseCase) cacheGet(ctx context.Context, key string, dest any) bool {
	hit, err := uc.cache.Get(ctx, key, dest)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("fallo leyendo cache, se consulta la base")
		return false
	}
	return hit
}

func (uc *PriceUseCase) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := uc.cache.Set(ctx, key, value, ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("fallo escribiendo cache")
	}
}

func (uc *PriceUseCase) invalidatePriceCaches(ctx context.Context, itemID int64) {
	if err := uc.cache.Delete(ctx, priceInvalidationKeys(itemID)...); err != nil {
		uc.log.Warn().Err(err).Msg("fallo invalidando caches de precio")
	}
}

func toPriceResponse(p *entity.Price) *dto.PriceResponse {
	if p == nil {
		return nil
	}
	return &dto.PriceResponse{
		ID:               p.ID,
		InventoryID:      p.InventoryID,
		SellingPrice:     p.SellingPrice,
		CostPrice:        p.CostPrice,
		DiscountPrice:    p.DiscountPrice,
		Currency:         p.Currency,
		MarginPercent:    p.MarginPercent,
		MarkupPercent:    p.MarkupPercent,
		IsActive:         p.IsActive,
		RequiresApproval: p.RequiresApproval,
		FinalPrice:       p.FinalPrice(),
		CalculatedMargin: p.CalculatedMargin(),
		EffectiveFrom:    p.EffectiveFrom,
		EffectiveUntil:   p.EffectiveUntil,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toPriceHistoryResponse(h *entity.PriceHistory) dto.PriceHistoryResponse {
	return dto.PriceHistoryResponse{
		ID:                 h.ID,
		InventoryID:        h.InventoryID,
		OldPrice:           h.OldPrice,
		NewPrice:           h.NewPrice,
		PriceChangeAmount:  h.PriceChangeAmount,
		PriceChangePercent: h.PriceChangePercent,
		ChangeReason:       h.ChangeReason,
		ChangeType:         h.ChangeType,
		IsPriceIncrease:    h.IsPriceIncrease(),
		ChangeSignificance: h.ChangeSignificance(),
		ChangedAt:          h.ChangedAt,
	}
}
