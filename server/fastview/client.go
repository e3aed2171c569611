package fastview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer; the page never sends more than control frames.
	maxMessageSize = 512
	// Liveness: ping at pingPeriod and give up after pongWait without a pong.
	pingPeriod = time.Millisecond * 500
	pongWait   = pingPeriod * 4
	// How long an op may wait for its turn on the socket.
	sockOpWait = time.Second
	// Time to wait before force close on connection.
	closeGracePeriod = time.Second
)

var upgrader = websocket.Upgrader{}

// ErrPongDeadlineExceeded means the peer stopped answering pings.
var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

// ErrSockCongestion indicates there are too many waiters on the socket for a given op.
var ErrSockCongestion = errors.New("sock op failed due to congestion")

// Publisher pushes updates one-way to a single browser over a websocket.
// Every item is sent; rate limiting is up to the producer of the updates chan.
type Publisher[T any] struct {
	updates <-chan T
	sock    *websock
	rootCtx context.Context
}

// NewPublisher upgrades the request to a websocket. On failure the http error
// has already been written to @w.
func NewPublisher[T any](
	updates <-chan T,
	w http.ResponseWriter,
	r *http.Request,
) (*Publisher[T], error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)

	return &Publisher[T]{
		updates: updates,
		sock:    newWebsock(conn),
		rootCtx: r.Context(),
	}, nil
}

// Sync publishes updates until the client goes away, the updates chan closes,
// or the request context ends, and then closes the socket. A normal client
// disconnect returns nil.
func (pub *Publisher[T]) Sync() error {
	defer pub.sock.Close()

	sessionCtx, endSession := context.WithCancel(pub.rootCtx)
	defer endSession()

	group, ctx := errgroup.WithContext(sessionCtx)
	run := func(loop func(context.Context) error) {
		group.Go(func() error {
			// Whichever loop ends first ends the session.
			defer endSession()
			return loop(ctx)
		})
	}
	// The read loop must run for pong and close frames to be processed at all.
	run(pub.drain)
	run(pub.keepAlive)
	run(pub.publish)
	group.Go(func() error {
		<-ctx.Done()
		// Unblocks the pending read in drain.
		_ = pub.sock.Conn().SetReadDeadline(time.Now())
		return nil
	})

	if err := group.Wait(); err != nil && !isClosure(err) {
		return err
	}
	return nil
}

// drain discards client messages. Read errors on a websocket are permanent,
// so any error ends the session.
func (pub *Publisher[T]) drain(ctx context.Context) error {
	conn := pub.sock.Conn()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
	}
}

func (pub *Publisher[T]) keepAlive(ctx context.Context) error {
	pongs := make(chan struct{}, 1)
	pub.sock.Conn().SetPongHandler(func(string) error {
		select {
		case pongs <- struct{}{}:
		default:
		}
		return nil
	})

	lastPong := time.Now()
	ticker := channerics.NewTicker(ctx.Done(), pingPeriod)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pongs:
			lastPong = time.Now()
		case <-ticker:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			err := pub.sock.Write(ctx, func(conn *websocket.Conn) error {
				return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			})
			if err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

func (pub *Publisher[T]) publish(ctx context.Context) error {
	for update := range channerics.OrDone(ctx.Done(), pub.updates) {
		err := pub.sock.Write(ctx, func(conn *websocket.Conn) error {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			return conn.WriteJSON(update)
		})
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}
	return nil
}

func isClosure(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr) && websocket.IsCloseError(
		closeErr,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

// websock serializes writes to the websocket, which permits only one
// concurrent writer. The semaphore is a chan so waiting can be abandoned.
type websock struct {
	writeSem chan struct{}
	conn     *websocket.Conn
}

func newWebsock(conn *websocket.Conn) *websock {
	return &websock{
		writeSem: make(chan struct{}, 1),
		conn:     conn,
	}
}

// Conn returns the underlying websocket, for setup and for the single reader.
func (sock *websock) Conn() *websocket.Conn {
	return sock.conn
}

// Write runs @writeFn while holding the write semaphore.
func (sock *websock) Write(
	ctx context.Context,
	writeFn func(*websocket.Conn) error,
) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return writeFn(sock.conn)
	case <-time.After(sockOpWait):
		return ErrSockCongestion
	}
}

// Close sends a close frame and closes the connection. It must only be called
// once no further writers exist.
func (sock *websock) Close() {
	sock.writeSem <- struct{}{}
	_ = sock.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	// Give the peer a moment to answer the close frame before tearing down.
	time.Sleep(closeGracePeriod)
	sock.conn.Close()
}
