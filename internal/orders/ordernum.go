package orders

import "crypto/rand"

const (
	orderNumLen   = 10
	orderNumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewOrderNum menghasilkan token acak utk nomor order. Ruang 36^10 membuat
// tabrakan praktis mustahil; unique index di orders.order_num tetap jadi
// penjaga terakhir (repo retry kalau kena).
func NewOrderNum() (string, error) {
	b := make([]byte, orderNumLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = orderNumChars[int(b[i])%len(orderNumChars)]
	}
	return string(b), nil
}
