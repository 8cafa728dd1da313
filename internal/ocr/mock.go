package ocr

import "context"

// MockEngine replays scripted detections, keyed by image fingerprint when
// ByKey is set, else the shared Fixed result. Err, when set, is returned
// for every call.
type MockEngine struct {
	Fixed    Result
	ByKey    map[string]Result
	ErrByKey map[string]error
	Key      func(img []byte) string
	Err      error

	Calls int
}

func (m *MockEngine) Detect(ctx context.Context, img []byte, langHints []string) (Result, error) {
	_ = ctx
	_ = langHints
	m.Calls++
	if m.Err != nil {
		return Result{}, m.Err
	}
	if m.Key != nil {
		k := m.Key(img)
		if err, ok := m.ErrByKey[k]; ok {
			return Result{}, err
		}
		if r, ok := m.ByKey[k]; ok {
			return r, nil
		}
		if m.ByKey != nil || m.ErrByKey != nil {
			return Result{}, nil
		}
	}
	return m.Fixed, nil
}
