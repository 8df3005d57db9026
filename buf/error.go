package buf

const (
	ErrUnderflow      Error = "buffer_underflow"
	ErrOverflow       Error = "buffer_overflow"
	ErrReadOnly       Error = "read_only_buffer"
	ErrGrowByTooLarge Error = "grow_by_greater_than_max_capacity"
)

type Error string

func (o Error) Error() string {
	return string(o)
}
