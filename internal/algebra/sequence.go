package algebra

// Sequence is the capability a container needs to be used with Range:
// positional access with a known element count, and a way to allocate a
// zeroed container of the same shape.
type Sequence[E any] interface {
	Len() int
	At(i int) E
	Set(i int, e E)
	Like() Sequence[E]
}

var (
	_ Sequence[float64] = Slice[float64](nil)
	_ Sequence[float64] = (*Vector)(nil)
)

// Slice presents a plain slice as a Sequence.
type Slice[E any] []E

func (s Slice[E]) Len() int          { return len(s) }
func (s Slice[E]) At(i int) E        { return s[i] }
func (s Slice[E]) Set(i int, e E)    { s[i] = e }
func (s Slice[E]) Like() Sequence[E] { return make(Slice[E], len(s)) }
