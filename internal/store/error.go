package store

const (
	ErrKeyNotFound Error = "key_not_found"
	ErrKeyExpired  Error = "key_expired"
	ErrOutOfLimit  Error = "out_of_the_limit"
)

type Error string

func (o Error) Error() string {
	return string(o)
}
