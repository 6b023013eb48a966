package realtime

import "errors"

// Canales fijos del bus (namespace:sustantivo). Forman parte del contrato
// entre instancias del servicio: no renombrar.
const (
	ChannelInventoryUpdates    = "inventory:updates"
	ChannelPriceUpdates        = "price:updates"
	ChannelStockAlerts         = "stock:alerts"
	ChannelPriceAlerts         = "price:alerts"
	ChannelSystemNotifications = "system:notifications"
)

// Tipos de conexión WebSocket; cada conexión pertenece a exactamente uno.
const (
	ConnTypeInventory = "inventory"
	ConnTypePrice     = "price"
	ConnTypeAlerts    = "alerts"
)

// ErrReceiveTimeout lo devuelve Subscription.ReceiveTimeout cuando venció la
// espera sin mensaje. No es una falla: el loop simplemente itera de nuevo.
var ErrReceiveTimeout = errors.New("timeout esperando mensaje del bus")

// allChannels canales que escucha el loop suscriptor.
func allChannels() []string {
	return []string{
		ChannelInventoryUpdates,
		ChannelPriceUpdates,
		ChannelStockAlerts,
		ChannelPriceAlerts,
		ChannelSystemNotifications,
	}
}
