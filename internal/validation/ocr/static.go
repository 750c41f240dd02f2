package ocr

import "context"

// StaticEngine returns a canned result regardless of input. Used in tests and
// in deployments that stub the OCR boundary.
type StaticEngine struct {
	Result *Result
	Err    error
}

func (s *StaticEngine) Extract(ctx context.Context, _ []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}
