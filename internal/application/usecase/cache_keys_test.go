package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCacheKeys_Formato las claves son contrato entre instancias: si cambian,
// las instancias ya desplegadas dejan de ver el mismo cache.
func TestCacheKeys_Formato(t *testing.T) {
	assert.Equal(t, "inventory:item:42", keyInventoryItem(42))
	assert.Equal(t, "inventory:list:0:100", keyInventoryList(0, 100))
	assert.Equal(t, "alerts:low_stock:10", keyLowStock(10))
	assert.Equal(t, "price:current:7", keyPriceCurrent(7))
	assert.Equal(t, "price:history:7:30", keyPriceHistory(7, 30))
}

// TestInventoryInvalidationKeys enumera entidad + 10 páginas + 4 umbrales.
func TestInventoryInvalidationKeys(t *testing.T) {
	keys := inventoryInvalidationKeys(5)
	assert.Len(t, keys, 15)
	assert.Contains(t, keys, "inventory:item:5")
	assert.Contains(t, keys, "inventory:list:0:100")
	assert.Contains(t, keys, "inventory:list:900:100")
	assert.Contains(t, keys, "alerts:low_stock:5")
	assert.Contains(t, keys, "alerts:low_stock:50")
}

// TestInventoryInvalidationKeys_SinItem en creación (id 0) no hay clave de
// entidad que borrar, solo listados y umbrales.
func TestInventoryInvalidationKeys_SinItem(t *testing.T) {
	keys := inventoryInvalidationKeys(0)
	assert.Len(t, keys, 14)
	assert.NotContains(t, keys, "inventory:item:0")
}

// TestPriceInvalidationKeys precio vigente + las tres ventanas de historial.
func TestPriceInvalidationKeys(t *testing.T) {
	keys := priceInvalidationKeys(9)
	assert.Equal(t, []string{
		"price:current:9",
		"price:history:9:7",
		"price:history:9:30",
		"price:history:9:90",
	}, keys)
}
