package heroes

import "context"

// GetImage resolves and streams a hero's image through the backend so
// browser clients never hit the upstream host directly. The stored image
// URL wins; a miss triggers a single directory fetch whose result is
// persisted for next time. Assets are treated as immutable once resolved.
func (s *Service) GetImage(ctx context.Context, id int) ([]byte, string, error) {
	h, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	imageURL := ""
	if h != nil {
		imageURL = h.Image
	}

	if imageURL == "" {
		raw, err := s.dir.FetchByID(ctx, id)
		if err != nil {
			return nil, "", err
		}

		rec, err := Normalize(*raw)
		if err != nil {
			return nil, "", ErrNoImage
		}
		if rec.Image == "" {
			return nil, "", ErrNoImage
		}

		// persistence is best-effort here: the freshly resolved URL is
		// still good for this request even if the upsert fails
		if err := s.store.Upsert(ctx, rec); err != nil {
			s.log.Error().Err(err).Int("hero_id", rec.ID).Msg("failed to persist hero image url")
		}
		imageURL = rec.Image
	}

	return s.dir.FetchAsset(ctx, imageURL)
}
