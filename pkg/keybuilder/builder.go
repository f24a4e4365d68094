package keybuilder

import (
	"fmt"
)

const (
	Redis    string = "redis"
	Delivery string = "delivery"
)

// RedisDeliveryKeyBuild returns the key that claims a webhook delivery ID.
func RedisDeliveryKeyBuild(deliveryID string) string {
	return fmt.Sprintf("%s:%s:%s", Redis, Delivery, deliveryID)
}
