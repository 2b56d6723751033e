package cache

import "fmt"

// Cache key builders, kept in one place so invalidation patterns stay
// in sync with the keys they target.

const (
	FormListKey       = "forms:list"
	FormListPattern   = "forms:*"
	OutletListKey     = "outlets:list"
	OutletListPattern = "outlets:*"
)

func FormKey(id uint) string {
	return fmt.Sprintf("forms:%d", id)
}

func OutletKey(id uint) string {
	return fmt.Sprintf("outlets:%d", id)
}

func OutletRatingKey(id uint) string {
	return fmt.Sprintf("outlets:%d:rating", id)
}

func QRTokenKey(token string) string {
	return fmt.Sprintf("qr:%s", token)
}
