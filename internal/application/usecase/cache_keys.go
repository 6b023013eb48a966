package usecase

import (
	"fmt"
	"time"
)

// Claves de cache (namespace:sustantivo:params). Son parte del contrato entre
// instancias del servicio: deben permanecer estables entre despliegues.
const (
	keyInventoryItemFmt = "inventory:item:%d"
	keyInventoryListFmt = "inventory:list:%d:%d" // skip, limit
	keyLowStockFmt      = "alerts:low_stock:%d"  // threshold
	keyPriceCurrentFmt  = "price:current:%d"
	keyPriceHistoryFmt  = "price:history:%d:%d" // item, días
)

// Clases de TTL observadas por tipo de dato.
const (
	ttlInventoryItem = 600 * time.Second  // lookup caliente de una entidad
	ttlInventoryList = 300 * time.Second  // páginas de listado
	ttlLowStock      = 120 * time.Second  // rollup de alertas, cambia seguido
	ttlPriceCurrent  = 1800 * time.Second // precio vigente, poca rotación
	ttlPriceHistory  = 3600 * time.Second // agregados históricos
)

// Conjuntos enumerados para invalidación best-effort: se borran las claves
// plausibles en vez de hacer pattern matching real. Lo que quede fuera de
// estos conjuntos expira por TTL (ventana de staleness aceptada).
var (
	invalidationThresholds  = []int{5, 10, 20, 50}
	invalidationHistoryDays = []int{7, 30, 90}
)

func keyInventoryItem(id int64) string        { return fmt.Sprintf(keyInventoryItemFmt, id) }
func keyInventoryList(skip, limit int) string { return fmt.Sprintf(keyInventoryListFmt, skip, limit) }
func keyLowStock(threshold int) string        { return fmt.Sprintf(keyLowStockFmt, threshold) }
func keyPriceCurrent(itemID int64) string     { return fmt.Sprintf(keyPriceCurrentFmt, itemID) }
func keyPriceHistory(itemID int64, days int) string {
	return fmt.Sprintf(keyPriceHistoryFmt, itemID, days)
}

// inventoryInvalidationKeys enumera las claves a borrar tras una mutación de
// inventario: la entidad (si aplica), las primeras 10 páginas del listado y
// los umbrales comunes del rollup de stock bajo.
func inventoryInvalidationKeys(itemID int64) []string {
	keys := make([]string, 0, 16)
	if itemID > 0 {
		keys = append(keys, keyInventoryItem(itemID))
	}
	for skip := 0; skip < 1000; skip += 100 {
		keys = append(keys, keyInventoryList(skip, 100))
	}
	for _, threshold := range invalidationThresholds {
		keys = append(keys, keyLowStock(threshold))
	}
	return keys
}

// priceInvalidationKeys enumera las claves a borrar tras una mutación de precio.
func priceInvalidationKeys(itemID int64) []string {
	keys := []string{keyPriceCurrent(itemID)}
	for _, days := range invalidationHistoryDays {
		keys = append(keys, keyPriceHistory(itemID, days))
	}
	return keys
}
