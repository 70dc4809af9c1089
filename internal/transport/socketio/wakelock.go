package socketio

import "errors"

// ErrNoClients is returned when no display is connected to hold a wake lock.
var ErrNoClients = errors.New("no connected clients")

// clientWakeLock asks the connected displays to keep the screen awake.
type clientWakeLock struct {
	server *Server
}

func (w *clientWakeLock) Acquire() error {
	if w.server.ClientCount() == 0 {
		return ErrNoClients
	}
	w.server.io.Emit("pushWakeLock", map[string]interface{}{"active": true})
	return nil
}

func (w *clientWakeLock) Release() error {
	w.server.io.Emit("pushWakeLock", map[string]interface{}{"active": false})
	return nil
}
