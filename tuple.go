package epsilon

// Tuple2 is a pair of values.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 is a triple of values.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple2Of returns the codec of Tuple2. Tuples are always deep; one whose
// members are all zero-copy and packed without padding is reported as a
// missed zero-copy opportunity.
func Tuple2Of[A, B any](a Member[A], b Member[B]) DeepCodec[Tuple2[A, B]] {
	return Struct(
		MemberField("0", a, func(t *Tuple2[A, B]) *A { return &t.First }),
		MemberField("1", b, func(t *Tuple2[A, B]) *B { return &t.Second }),
	)
}

// Tuple3Of returns the codec of Tuple3.
func Tuple3Of[A, B, C any](a Member[A], b Member[B], c Member[C]) DeepCodec[Tuple3[A, B, C]] {
	return Struct(
		MemberField("0", a, func(t *Tuple3[A, B, C]) *A { return &t.First }),
		MemberField("1", b, func(t *Tuple3[A, B, C]) *B { return &t.Second }),
		MemberField("2", c, func(t *Tuple3[A, B, C]) *C { return &t.Third }),
	)
}
