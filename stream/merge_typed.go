package stream

// Pair6..Pair10 and Merge6..Merge10 extend [Merge2]..[Merge5] to the full
// N=2..10 range spec §6 calls out. Every variant is the same mechanical
// shape: box each typed source into Source[any], run the dynamic [Merge],
// then unbox the []any tuple into the typed struct.

type Pair6[A, B, C, D, E, F any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
}

func Merge6[A, B, C, D, E, F any](a Source[A], b Source[B], c Source[C], d Source[D], e Source[E], f Source[F]) (Source[Pair6[A, B, C, D, E, F]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c), boxSource(d), boxSource(e), boxSource(f))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair6[A, B, C, D, E, F]](dyn, newTupleTransformer[Pair6[A, B, C, D, E, F]](func(t []any) Pair6[A, B, C, D, E, F] {
		return Pair6[A, B, C, D, E, F]{A: t[0].(A), B: t[1].(B), C: t[2].(C), D: t[3].(D), E: t[4].(E), F: t[5].(F)}
	})), nil
}

type Pair7[A, B, C, D, E, F, G any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
}

func Merge7[A, B, C, D, E, F, G any](a Source[A], b Source[B], c Source[C], d Source[D], e Source[E], f Source[F], g Source[G]) (Source[Pair7[A, B, C, D, E, F, G]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c), boxSource(d), boxSource(e), boxSource(f), boxSource(g))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair7[A, B, C, D, E, F, G]](dyn, newTupleTransformer[Pair7[A, B, C, D, E, F, G]](func(t []any) Pair7[A, B, C, D, E, F, G] {
		return Pair7[A, B, C, D, E, F, G]{A: t[0].(A), B: t[1].(B), C: t[2].(C), D: t[3].(D), E: t[4].(E), F: t[5].(F), G: t[6].(G)}
	})), nil
}

type Pair8[A, B, C, D, E, F, G, H any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
	H H
}

func Merge8[A, B, C, D, E, F, G, H any](a Source[A], b Source[B], c Source[C], d Source[D], e Source[E], f Source[F], g Source[G], h Source[H]) (Source[Pair8[A, B, C, D, E, F, G, H]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c), boxSource(d), boxSource(e), boxSource(f), boxSource(g), boxSource(h))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair8[A, B, C, D, E, F, G, H]](dyn, newTupleTransformer[Pair8[A, B, C, D, E, F, G, H]](func(t []any) Pair8[A, B, C, D, E, F, G, H] {
		return Pair8[A, B, C, D, E, F, G, H]{A: t[0].(A), B: t[1].(B), C: t[2].(C), D: t[3].(D), E: t[4].(E), F: t[5].(F), G: t[6].(G), H: t[7].(H)}
	})), nil
}

type Pair9[A, B, C, D, E, F, G, H, I any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
	H H
	I I
}

func Merge9[A, B, C, D, E, F, G, H, I any](a Source[A], b Source[B], c Source[C], d Source[D], e Source[E], f Source[F], g Source[G], h Source[H], i Source[I]) (Source[Pair9[A, B, C, D, E, F, G, H, I]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c), boxSource(d), boxSource(e), boxSource(f), boxSource(g), boxSource(h), boxSource(i))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair9[A, B, C, D, E, F, G, H, I]](dyn, newTupleTransformer[Pair9[A, B, C, D, E, F, G, H, I]](func(t []any) Pair9[A, B, C, D, E, F, G, H, I] {
		return Pair9[A, B, C, D, E, F, G, H, I]{A: t[0].(A), B: t[1].(B), C: t[2].(C), D: t[3].(D), E: t[4].(E), F: t[5].(F), G: t[6].(G), H: t[7].(H), I: t[8].(I)}
	})), nil
}

type Pair10[A, B, C, D, E, F, G, H, I, J any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
	H H
	I I
	J J
}

func Merge10[A, B, C, D, E, F, G, H, I, J any](a Source[A], b Source[B], c Source[C], d Source[D], e Source[E], f Source[F], g Source[G], h Source[H], i Source[I], j Source[J]) (Source[Pair10[A, B, C, D, E, F, G, H, I, J]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c), boxSource(d), boxSource(e), boxSource(f), boxSource(g), boxSource(h), boxSource(i), boxSource(j))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair10[A, B, C, D, E, F, G, H, I, J]](dyn, newTupleTransformer[Pair10[A, B, C, D, E, F, G, H, I, J]](func(t []any) Pair10[A, B, C, D, E, F, G, H, I, J] {
		return Pair10[A, B, C, D, E, F, G, H, I, J]{A: t[0].(A), B: t[1].(B), C: t[2].(C), D: t[3].(D), E: t[4].(E), F: t[5].(F), G: t[6].(G), H: t[7].(H), I: t[8].(I), J: t[9].(J)}
	})), nil
}
