package platform

import "time"

// DefaultTimeout is how long a notification stays up when Options.Timeout is
// zero.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification center.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification where supported. Saved PNGs double as their own preview.
	IconPath string
	Timeout  time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "Annotator"
	}
	return o.AppName
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
