package flowz

// ProcessResult2 is the return shape of a two-output processing function.
// A nil slot means "do not send on this output this cycle"; it is not an
// error and does not block. The zero value emits nothing.
type ProcessResult2[A, B any] struct {
	First  *A
	Second *B
}

// NewResult2 returns a result with both slots present.
func NewResult2[A, B any](first A, second B) ProcessResult2[A, B] {
	return ProcessResult2[A, B]{First: &first, Second: &second}
}

// Result2First returns a result with only the first slot present.
func Result2First[A, B any](first A) ProcessResult2[A, B] {
	return ProcessResult2[A, B]{First: &first}
}

// Result2Second returns a result with only the second slot present.
func Result2Second[A, B any](second B) ProcessResult2[A, B] {
	return ProcessResult2[A, B]{Second: &second}
}

// Destructure returns the slot values and their presence flags.
func (r ProcessResult2[A, B]) Destructure() (first A, okFirst bool, second B, okSecond bool) {
	if r.First != nil {
		first, okFirst = *r.First, true
	}
	if r.Second != nil {
		second, okSecond = *r.Second, true
	}
	return first, okFirst, second, okSecond
}

// ProcessResult3 is the three-output counterpart of ProcessResult2.
type ProcessResult3[A, B, C any] struct {
	First  *A
	Second *B
	Third  *C
}

// NewResult3 returns a result with all three slots present.
func NewResult3[A, B, C any](first A, second B, third C) ProcessResult3[A, B, C] {
	return ProcessResult3[A, B, C]{First: &first, Second: &second, Third: &third}
}

// Result3First returns a result with only the first slot present.
func Result3First[A, B, C any](first A) ProcessResult3[A, B, C] {
	return ProcessResult3[A, B, C]{First: &first}
}

// Result3Second returns a result with only the second slot present.
func Result3Second[A, B, C any](second B) ProcessResult3[A, B, C] {
	return ProcessResult3[A, B, C]{Second: &second}
}

// Result3Third returns a result with only the third slot present.
func Result3Third[A, B, C any](third C) ProcessResult3[A, B, C] {
	return ProcessResult3[A, B, C]{Third: &third}
}

// Destructure returns the slot values and their presence flags.
func (r ProcessResult3[A, B, C]) Destructure() (first A, okFirst bool, second B, okSecond bool, third C, okThird bool) {
	if r.First != nil {
		first, okFirst = *r.First, true
	}
	if r.Second != nil {
		second, okSecond = *r.Second, true
	}
	if r.Third != nil {
		third, okThird = *r.Third, true
	}
	return
}
