package mock

import "github.com/fwojciec/mailtext"

var _ mailtext.ProfileDetector = (*ProfileDetector)(nil)

// ProfileDetector is a mock implementation of mailtext.ProfileDetector.
type ProfileDetector struct {
	DetectFn func(html string) string
}

func (d *ProfileDetector) Detect(html string) string {
	return d.DetectFn(html)
}
