package quiz

// Window returns seq[offset:offset+BatchSize] clipped to the sequence length.
func Window[Q any](seq []Q, offset int) []Q {
	if offset < 0 || offset >= len(seq) {
		return nil
	}
	end := offset + BatchSize
	if end > len(seq) {
		end = len(seq)
	}
	return seq[offset:end]
}

// Advance moves the offset to the next batch. When no further batch starts
// before total it returns ErrBatchExhausted and the offset unchanged.
func Advance(offset, total int) (int, error) {
	if next := offset + BatchSize; next < total {
		return next, nil
	}
	return offset, ErrBatchExhausted
}
