package socketio

import (
	"net"
	"sync"
)

// ConnectionLimiter bounds the number of remote displays attached to one
// session. Loopback clients, such as the kiosk browser on the device itself,
// are never counted. Once the limit is exceeded the oldest remote display is
// evicted so a newly woken panel always gets in.
type ConnectionLimiter struct {
	mu        sync.Mutex
	maxRemote int
	remote    []string          // oldest first
	addrs     map[string]string // client id -> ip
}

// NewConnectionLimiter creates a limiter for up to maxRemote remote clients.
func NewConnectionLimiter(maxRemote int) *ConnectionLimiter {
	return &ConnectionLimiter{
		maxRemote: maxRemote,
		addrs:     make(map[string]string),
	}
}

// TryAdd registers a client. It returns whether the client may stay and the
// id of a client that must be disconnected to make room, if any.
func (cl *ConnectionLimiter) TryAdd(clientID, ip string) (allowed bool, evictedID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, ok := cl.addrs[clientID]; ok {
		return true, ""
	}
	cl.addrs[clientID] = ip
	if isLocalIP(ip) {
		return true, ""
	}

	cl.remote = append(cl.remote, clientID)
	if len(cl.remote) <= cl.maxRemote {
		return true, ""
	}

	evictedID = cl.remote[0]
	cl.remote = cl.remote[1:]
	delete(cl.addrs, evictedID)
	return true, evictedID
}

// Remove forgets a disconnected client.
func (cl *ConnectionLimiter) Remove(clientID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	ip, ok := cl.addrs[clientID]
	if !ok {
		return
	}
	delete(cl.addrs, clientID)
	if isLocalIP(ip) {
		return
	}
	for i, id := range cl.remote {
		if id == clientID {
			cl.remote = append(cl.remote[:i], cl.remote[i+1:]...)
			break
		}
	}
}

// Remote returns the number of tracked remote clients.
func (cl *ConnectionLimiter) Remote() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.remote)
}

func isLocalIP(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
