package mapfile

import "context"

// ReadWholeAsync takes a slot of the store's bounded worker pool,
// waiting until one is free or ctx is cancelled, then runs read_whole
// on the calling goroutine and frees the slot. Open and Release have no
// pool-bounded form.
func (s *Store) ReadWholeAsync(ctx context.Context, path string) ([]byte, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, ctx.Err()
	}
	defer s.sem.Release(1)
	return s.ReadWhole(path)
}

// ReadLinesAsync is the non-blocking form of read_lines.
func (s *Store) ReadLinesAsync(ctx context.Context, path string, start, end int) ([]byte, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, ctx.Err()
	}
	defer s.sem.Release(1)
	return s.ReadLinesSync(path, start, end)
}
