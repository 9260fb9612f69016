package memory

import "context"

func (s *Store) NextValue(ctx context.Context, name string) (int64, error) {
	var v int64
	err := s.write(ctx, func() error {
		s.counters[name]++
		v = s.counters[name]
		return nil
	})
	return v, err
}
