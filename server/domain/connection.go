package domain

import "context"

// websocket の close code
const (
	CloseNormal        int32 = 1000
	CloseGoingAway     int32 = 1001
	ClosePolicyViolate int32 = 1008
)

type ConnectionID string

// Connection は物理的な接続を表します。
type Connection struct {
	SessionID    SessionID
	ConnectionID ConnectionID
	transport    Transport
}

func NewConnection(sessionID SessionID, transport Transport) *Connection {
	return &Connection{
		SessionID:    sessionID,
		ConnectionID: ConnectionID(sessionID),
		transport:    transport,
	}
}

func (c *Connection) Write(ctx context.Context, data []byte) error {
	return c.transport.Write(ctx, data)
}

func (c *Connection) Read(ctx context.Context) ([]byte, error) {
	return c.transport.Read(ctx)
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.transport.Ping(ctx)
}

func (c *Connection) Close(code int32, reason string) {
	_ = c.transport.Close(code, reason)
}
