package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/dto"
	"github.com/jhoicas/Inventario-realtime-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-realtime-api/internal/domain"
	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

type priceFixture struct {
	uc       *usecase.PriceUseCase
	prices   *fakePriceRepo
	history  *fakeHistoryRepo
	invRepo  *fakeInventoryRepo
	cache    *fakeCache
	notifier *fakeNotifier
}

func newPriceFixture() *priceFixture {
	prices := newFakePriceRepo()
	history := newFakeHistoryRepo()
	invRepo := newFakeInventoryRepo()
	cache := newFakeCache()
	notifier := &fakeNotifier{}
	txRunner := &fakeTxRunner{prices: prices, history: history}
	uc := usecase.NewPriceUseCase(prices, history, invRepo, txRunner, cache, notifier, logger.Nop(), 5)
	return &priceFixture{uc: uc, prices: prices, history: history, invRepo: invRepo, cache: cache, notifier: notifier}
}

func createReq(itemID int64, selling float64) dto.CreatePriceRequest {
	return dto.CreatePriceRequest{
		InventoryID:  itemID,
		SellingPrice: decimal.NewFromFloat(selling),
		CostPrice:    decimal.NewFromInt(10),
	}
}

// TestPriceCreate_PrimerPrecio el primer precio no registra historial (no hay
// transición) y emite price_update con action created.
func TestPriceCreate_PrimerPrecio(t *testing.T) {
	f := newPriceFixture()
	item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)

	out, err := f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 100))
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, "JPY", out.Currency, "sin moneda explícita aplica el default")

	assert.Empty(t, f.history.rows, "el primer precio no es una transición")
	require.Len(t, f.notifier.priceUpdates, 1)
	event := f.notifier.priceUpdates[0].(dto.PriceUpdateEvent)
	assert.Equal(t, "created", event.Action)
	assert.Empty(t, f.notifier.priceAlerts)
}

// TestPriceCreate_ItemInexistente fijar precio de un ítem que no existe es
// ErrNotFound, sin escribir nada.
func TestPriceCreate_ItemInexistente(t *testing.T) {
	f := newPriceFixture()
	_, err := f.uc.CreateOrUpdate(context.Background(), createReq(999, 100))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.prices.rows)
}

// TestPriceCreate_Validacion precio de venta <= 0 o costo negativo son inválidos.
func TestPriceCreate_Validacion(t *testing.T) {
	f := newPriceFixture()
	item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)

	req := createReq(item.ID, 0)
	_, err := f.uc.CreateOrUpdate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = createReq(item.ID, 100)
	req.CostPrice = decimal.NewFromInt(-1)
	_, err = f.uc.CreateOrUpdate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestPriceCreate_SegundoPrecio la fila anterior queda desactivada con la
// ventana cerrada, el historial registra la transición y el evento dice updated.
func TestPriceCreate_SegundoPrecio(t *testing.T) {
	f := newPriceFixture()
	item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)

	_, err := f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 100))
	require.NoError(t, err)
	_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 104))
	require.NoError(t, err)

	require.Len(t, f.prices.rows, 2, "append-only: la fila anterior no se borra")
	old := f.prices.rows[0]
	assert.False(t, old.IsActive)
	require.NotNil(t, old.EffectiveUntil, "desactivar debe cerrar la ventana temporal")

	require.Len(t, f.history.rows, 1)
	change := f.history.rows[0]
	assert.True(t, change.OldPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, change.NewPrice.Equal(decimal.NewFromInt(104)))

	event := f.notifier.priceUpdates[1].(dto.PriceUpdateEvent)
	assert.Equal(t, "updated", event.Action)
	assert.Empty(t, f.notifier.priceAlerts, "4% no alcanza el umbral de alerta del 5%")
}

// TestPriceAlert_Clasificacion >= 20% es major_change; entre 5 y 20, el signo
// decide entre significant_increase y significant_decrease.
func TestPriceAlert_Clasificacion(t *testing.T) {
	cases := []struct {
		name     string
		from, to float64
		want     string
	}{
		{"subida del 25% es major_change", 100, 125, usecase.PriceAlertMajorChange},
		{"caída del 25% es major_change", 100, 75, usecase.PriceAlertMajorChange},
		{"borde exacto del 20% es major_change", 100, 120, usecase.PriceAlertMajorChange},
		{"subida del 10% es significant_increase", 100, 110, usecase.PriceAlertSignificantIncrease},
		{"caída del 10% es significant_decrease", 100, 90, usecase.PriceAlertSignificantDecrease},
		{"borde exacto del 5% dispara alerta", 100, 105, usecase.PriceAlertSignificantIncrease},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPriceFixture()
			item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)

			_, err := f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, tc.from))
			require.NoError(t, err)
			_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, tc.to))
			require.NoError(t, err)

			require.Len(t, f.notifier.priceAlerts, 1)
			alert := f.notifier.priceAlerts[0].(dto.PriceChangeAlertEvent)
			assert.Equal(t, tc.want, alert.AlertType)
			assert.Equal(t, "SKU-1", alert.SKU)
		})
	}
}

// TestPriceUpdate_Parcial la actualización parcial materializa una fila nueva;
// si no cambió selling_price no hay transición en el historial.
func TestPriceUpdate_Parcial(t *testing.T) {
	f := newPriceFixture()
	item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)
	_, err := f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 100))
	require.NoError(t, err)

	cost := decimal.NewFromInt(20)
	out, err := f.uc.Update(context.Background(), item.ID, dto.UpdatePriceRequest{CostPrice: &cost})
	require.NoError(t, err)
	assert.True(t, out.CostPrice.Equal(cost))
	assert.True(t, out.SellingPrice.Equal(decimal.NewFromInt(100)), "los campos no enviados se conservan")

	assert.Len(t, f.prices.rows, 2, "también la actualización parcial es append-only")
	assert.Empty(t, f.history.rows, "sin cambio de selling_price no hay transición")

	selling := decimal.NewFromInt(130)
	_, err = f.uc.Update(context.Background(), item.ID, dto.UpdatePriceRequest{SellingPrice: &selling})
	require.NoError(t, err)
	require.Len(t, f.history.rows, 1)
	require.Len(t, f.notifier.priceAlerts, 1, "30% de subida dispara alerta")
	alert := f.notifier.priceAlerts[0].(dto.PriceChangeAlertEvent)
	assert.Equal(t, usecase.PriceAlertMajorChange, alert.AlertType)
}

// TestPriceUpdate_SinPrecioVigente devuelve (nil, nil).
func TestPriceUpdate_SinPrecioVigente(t *testing.T) {
	f := newPriceFixture()
	selling := decimal.NewFromInt(100)
	out, err := f.uc.Update(context.Background(), 1, dto.UpdatePriceRequest{SellingPrice: &selling})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// TestCurrentPrice_CacheAside el precio vigente se sirve desde cache tras la
// primera lectura y la mutación lo invalida.
func TestCurrentPrice_CacheAside(t *testing.T) {
	f := newPriceFixture()
	item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)
	_, err := f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 100))
	require.NoError(t, err)

	first, err := f.uc.CurrentPrice(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Contains(t, f.cache.data, "price:current:1")

	_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 110))
	require.NoError(t, err)
	assert.NotContains(t, f.cache.data, "price:current:1", "la mutación invalida el precio cacheado")

	second, err := f.uc.CurrentPrice(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, second.SellingPrice.Equal(decimal.NewFromInt(110)))
}

// TestHistory ventana por días con default 30 y cache propio por ventana.
func TestHistory(t *testing.T) {
	f := newPriceFixture()
	item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)
	_, err := f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 100))
	require.NoError(t, err)
	_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 110))
	require.NoError(t, err)
	_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 121))
	require.NoError(t, err)

	rows, err := f.uc.History(context.Background(), item.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, f.cache.data, "price:history:1:30", "days 0 usa la ventana default de 30 días")
	assert.True(t, rows[0].NewPrice.Equal(decimal.NewFromInt(121)), "más reciente primero")
	assert.True(t, rows[0].IsPriceIncrease)
	assert.Equal(t, "significant", rows[0].ChangeSignificance)
}

// TestSignificantChanges filtra por |Δ%|: una caída grande entra igual que una
// subida grande, ordenadas por magnitud.
func TestSignificantChanges(t *testing.T) {
	f := newPriceFixture()
	item := seedItem(f.invRepo, "SKU-1", 50, 0, 10)
	_, err := f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 100))
	require.NoError(t, err)
	_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 70)) // -30%
	require.NoError(t, err)
	_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 77)) // +10%
	require.NoError(t, err)
	_, err = f.uc.CreateOrUpdate(context.Background(), createReq(item.ID, 78)) // ~+1.3%
	require.NoError(t, err)

	rows, err := f.uc.SignificantChanges(context.Background(), 5, 24)
	require.NoError(t, err)
	require.Len(t, rows, 2, "el cambio del 1.3% queda fuera")
	assert.True(t, rows[0].PriceChangePercent.Equal(decimal.NewFromInt(-30)), "la caída del 30% encabeza por magnitud")
	assert.True(t, rows[1].PriceChangePercent.Equal(decimal.NewFromInt(10)))
}
