package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/dto"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain/entity"
)

// TestEscenario_StockBajo flujo completo de monitoreo de stock: se crea un
// ítem sano, una venta lo deja bajo el mínimo y el sistema emite la alerta,
// invalida el cache y lo refleja en el rollup de stock bajo.
func TestEscenario_StockBajo(t *testing.T) {
	repo := newFakeInventoryRepo()
	cache := newFakeCache()
	notifier := &fakeNotifier{}
	uc := newInventoryUC(repo, cache, notifier)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateInventoryRequest{
		SKU:           "PROD-001",
		Name:          "Monitor 24\"",
		StockQuantity: 50,
		MinStockLevel: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusOK, created.StockStatus)
	assert.Empty(t, notifier.stockAlerts, "con stock sano no hay alerta")

	// Primera lectura puebla el cache del ítem.
	_, err = uc.GetByID(ctx, created.ID)
	require.NoError(t, err)

	// Una venta grande deja el disponible en 8, bajo el mínimo de 10.
	stock := 8
	updated, err := uc.Update(ctx, created.ID, dto.UpdateInventoryRequest{StockQuantity: &stock})
	require.NoError(t, err)
	assert.True(t, updated.IsLowStock)
	assert.Equal(t, entity.StockStatusLow, updated.StockStatus)

	require.Len(t, notifier.stockAlerts, 1)
	alert := notifier.stockAlerts[0].(dto.StockAlertEvent)
	assert.Equal(t, "PROD-001", alert.SKU)
	assert.Equal(t, "warning", alert.AlertLevel)
	assert.Equal(t, 8, alert.CurrentStock)

	require.Len(t, notifier.inventoryUpdates, 2, "created y updated")
	event := notifier.inventoryUpdates[1].(dto.InventoryUpdateEvent)
	assert.Equal(t, "updated", event.Action)
	assert.True(t, event.Item.IsLowStock)

	// La mutación invalidó el cache: la lectura siguiente ve el stock nuevo.
	fresh, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, fresh.AvailableQuantity)

	alerts, err := uc.LowStockAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "PROD-001", alerts[0].SKU)
	assert.Equal(t, "low", alerts[0].AlertLevel)
	assert.Equal(t, 2, alerts[0].ShortageAmount)
}

// TestEscenario_CaidaDePrecio flujo completo de una baja de precio fuerte:
// 12000 -> 9000 es -25%, cae como major_change, queda en el historial y la
// lectura del precio vigente refleja el valor nuevo tras la invalidación.
func TestEscenario_CaidaDePrecio(t *testing.T) {
	f := newPriceFixture()
	ctx := context.Background()
	item := seedItem(f.invRepo, "PROD-001", 50, 0, 10)

	_, err := f.uc.CreateOrUpdate(ctx, createReq(item.ID, 12000))
	require.NoError(t, err)

	// Lectura puebla el cache del precio vigente.
	current, err := f.uc.CurrentPrice(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.SellingPrice.Equal(decimal.NewFromInt(12000)))

	req := createReq(item.ID, 9000)
	req.ChangeReason = "liquidación de temporada"
	_, err = f.uc.CreateOrUpdate(ctx, req)
	require.NoError(t, err)

	require.Len(t, f.notifier.priceAlerts, 1)
	alert := f.notifier.priceAlerts[0].(dto.PriceChangeAlertEvent)
	assert.Equal(t, "major_change", alert.AlertType)
	assert.Equal(t, "PROD-001", alert.SKU)
	assert.True(t, alert.OldPrice.Equal(decimal.NewFromInt(12000)))
	assert.True(t, alert.NewPrice.Equal(decimal.NewFromInt(9000)))
	assert.True(t, alert.ChangePercent.Equal(decimal.NewFromInt(-25)))

	// El historial conserva la transición con su magnitud.
	history, err := f.uc.History(ctx, item.ID, 30)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "major", history[0].ChangeSignificance)
	assert.False(t, history[0].IsPriceIncrease)
	assert.Equal(t, "liquidación de temporada", history[0].ChangeReason)

	// La mutación invalidó price:current: la lectura ya ve 9000.
	current, err = f.uc.CurrentPrice(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.SellingPrice.Equal(decimal.NewFromInt(9000)))
}
