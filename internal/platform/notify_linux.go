//go:build linux

package platform

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// Notify sends a desktop notification using the Freedesktop.org notification spec.
func Notify(ctx context.Context, title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.CallWithContext(ctx, "org.freedesktop.Notifications.Notify", 0,
		opts.appName(), uint32(0), opts.IconPath, title, body, []string{},
		map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.complete")},
		int32(opts.timeout().Milliseconds()))
	return call.Err
}
