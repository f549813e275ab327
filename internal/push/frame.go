package push

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type frameKind int

const (
	frameIgnore frameKind = iota
	frameOpen
	frameClose
	framePing
	frameConnectAck
	frameConnectError
	frameEvent
)

// frame is one decoded text message from the server.
type frame struct {
	kind frameKind
	name string
	data json.RawMessage
	open engineOpen
	text string // reason for close/connect-error frames
}

// engineOpen is the Engine.IO handshake payload.
type engineOpen struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"` // milliseconds
	PingTimeout  int    `json:"pingTimeout"`  // milliseconds
}

// readTimeout is how long to wait for the next server ping.
func (o engineOpen) readTimeout() time.Duration {
	if o.PingInterval <= 0 {
		return 0
	}
	return time.Duration(o.PingInterval+o.PingTimeout) * time.Millisecond
}

// Engine.IO v4 packet types.
const (
	engineOpenType    = '0'
	engineCloseType   = '1'
	enginePingType    = '2'
	enginePongType    = '3'
	engineMessageType = '4'
	engineNoopType    = '6'
)

// Socket.IO v5 packet types, carried inside an Engine.IO message.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioAck          = '3'
	sioConnectError = '4'
)

// Client frames for the Socket.IO protocol.
var (
	socketIOConnectFrame = []byte{engineMessageType, sioConnect}
	socketIOPongFrame    = []byte{enginePongType}
)

var errEmptyFrame = errors.New("empty frame")

// decodeSocketIOFrame parses one Engine.IO text packet. Only the default
// namespace is used; packets for other namespaces are ignored.
func decodeSocketIOFrame(b []byte) (frame, error) {
	if len(b) == 0 {
		return frame{}, errEmptyFrame
	}

	switch b[0] {
	case engineOpenType:
		var o engineOpen
		if err := json.Unmarshal(b[1:], &o); err != nil {
			return frame{}, fmt.Errorf("invalid open packet: %w", err)
		}
		return frame{kind: frameOpen, open: o}, nil
	case engineCloseType:
		return frame{kind: frameClose, text: "server closed the transport"}, nil
	case enginePingType:
		return frame{kind: framePing}, nil
	case enginePongType, engineNoopType:
		return frame{kind: frameIgnore}, nil
	case engineMessageType:
		return decodeSocketIOPacket(b[1:])
	}
	return frame{}, fmt.Errorf("unknown engine packet type %q", b[0])
}

func decodeSocketIOPacket(b []byte) (frame, error) {
	if len(b) == 0 {
		return frame{}, errEmptyFrame
	}
	typ, rest := b[0], b[1:]

	// Optional namespace: "/name," prefix.
	nsp := "/"
	if len(rest) > 0 && rest[0] == '/' {
		end := bytes.IndexByte(rest, ',')
		if end < 0 {
			nsp, rest = string(rest), nil
		} else {
			nsp, rest = string(rest[:end]), rest[end+1:]
		}
	}
	if nsp != "/" {
		return frame{kind: frameIgnore}, nil
	}

	// Optional ack id.
	for len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
		rest = rest[1:]
	}

	switch typ {
	case sioConnect:
		return frame{kind: frameConnectAck}, nil
	case sioDisconnect:
		return frame{kind: frameClose, text: "server disconnected the socket"}, nil
	case sioConnectError:
		var body struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(rest, &body)
		if body.Message == "" {
			body.Message = "connection refused"
		}
		return frame{kind: frameConnectError, text: body.Message}, nil
	case sioAck:
		return frame{kind: frameIgnore}, nil
	case sioEvent:
		var args []json.RawMessage
		if err := json.Unmarshal(rest, &args); err != nil {
			return frame{}, fmt.Errorf("invalid event packet: %w", err)
		}
		if len(args) == 0 {
			return frame{}, errors.New("event packet without a name")
		}
		var name string
		if err := json.Unmarshal(args[0], &name); err != nil {
			return frame{}, fmt.Errorf("invalid event name: %w", err)
		}
		f := frame{kind: frameEvent, name: name}
		if len(args) > 1 {
			f.data = args[1]
		}
		return f, nil
	}
	return frame{}, fmt.Errorf("unknown socket packet type %q", typ)
}

// envelope is the plain JSON protocol: one event per text message.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func decodeJSONFrame(b []byte) (frame, error) {
	if len(b) == 0 {
		return frame{}, errEmptyFrame
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return frame{}, fmt.Errorf("invalid envelope: %w", err)
	}
	if env.Event == "" {
		return frame{}, errors.New("envelope without an event name")
	}
	return frame{kind: frameEvent, name: env.Event, data: env.Data}, nil
}
