package hotline

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/fuzzywalrus/hotline-sub000/internal/metrics"
)

// protocolVersion is the VersionNumber field value sent with every
// Login transaction.
const protocolVersion = 123

// keepAliveTranVersion is the minimum serverVersion that understands a
// dedicated keep-alive transaction; older servers get a getUserNameList
// heartbeat instead.
const keepAliveTranVersion = 185

// Session owns one control connection to a Hotline server: handshake,
// login, the demultiplexing receive loop, keep-alive, and every
// operation that rides the control channel.
type Session struct {
	id xid.ID

	host string
	port string

	replyTimeout       time.Duration
	handshakeTimeout   time.Duration
	keepAliveInterval  time.Duration
	transferPortOffset int
	stringEncoding     StringEncoding

	logger            *logrus.Logger
	dialer            *net.Dialer
	metricsRegisterer prometheus.Registerer
	metrics           *metrics.Collector
	chatHistorySink   func(ChatRecord)

	conn net.Conn

	writeMu sync.Mutex
	nextID  uint32

	reg    *registry
	events chan Event

	stateMu sync.Mutex
	state   State

	serverName    string
	serverVersion uint16
	loggedIn      atomic.Bool

	usersMu    sync.Mutex
	knownUsers map[uint16]struct{}

	teardownOnce   sync.Once
	disconnectOnce sync.Once

	quitCh chan struct{}
	doneCh chan struct{}
}

// Dial opens a TCP connection to addr ("host:port"), performs the
// TRTP/HOTL handshake, and on success returns a Session that has moved
// Connecting → Handshaking → Connected. On failure it returns a nil
// Session and an error. Call Login to authenticate.
func Dial(addr string, opts ...Option) (*Session, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("hotline: invalid address: %w", err)
	}

	s := &Session{
		id:                 xid.New(),
		host:               host,
		port:               port,
		replyTimeout:       defaultReplyTimeout,
		handshakeTimeout:   defaultHandshakeTimeout,
		keepAliveInterval:  defaultKeepAliveInterval,
		transferPortOffset: defaultTransferPortOffset,
		stringEncoding:     MacRoman,
		logger:             newDisabledLogger(),
		dialer:             &net.Dialer{},
		reg:                newRegistry(),
		events:             make(chan Event, eventBufferSize),
		knownUsers:         make(map[uint16]struct{}),
		quitCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("hotline: applying option: %w", err)
		}
	}
	s.metrics = metrics.New(s.metricsRegisterer)

	s.setState(StateConnecting)

	dialAddr := net.JoinHostPort(s.host, s.port)
	conn, err := s.dialer.Dial("tcp", dialAddr)
	if err != nil {
		s.setState(StateDisconnected)
		return nil, &IOError{Cause: err}
	}
	s.conn = newDeadlineConn(conn, s.handshakeTimeout)

	s.setState(StateHandshaking)
	if err := s.handshake(); err != nil {
		conn.Close()
		s.setState(StateDisconnected)
		return nil, err
	}

	s.conn = newDeadlineConn(conn, s.replyTimeout)
	s.setState(StateConnected)

	go s.receiveLoop()

	return s, nil
}

// controlHandshakeMagic is the 12-byte magic sent at connect time:
// "TRTP" "HOTL" ver=0x0001 sub=0x0002.
var controlHandshakeMagic = []byte{'T', 'R', 'T', 'P', 'H', 'O', 'T', 'L', 0x00, 0x01, 0x00, 0x02}

func (s *Session) handshake() error {
	if _, err := s.conn.Write(controlHandshakeMagic); err != nil {
		return &IOError{Cause: err}
	}

	reply := make([]byte, 8)
	if err := readExact(s.conn, reply); err != nil {
		return err
	}

	if string(reply[0:4]) != "TRTP" {
		return &HandshakeError{Code: ^uint32(0)}
	}
	code := uint32(reply[4])<<24 | uint32(reply[5])<<16 | uint32(reply[6])<<8 | uint32(reply[7])
	if code != 0 {
		return &HandshakeError{Code: code}
	}
	return nil
}

// Login sends the Login transaction (type 107) and blocks for the
// reply. On success the Session moves through Connected into LoggedIn.
// If the server requires an agreement, that flow is driven separately
// via the AgreementRequired event and SendAgree.
func (s *Session) Login(login, password, username string, iconID uint16) error {
	if s.State() != StateConnected {
		return &NotConnectedError{State: s.State()}
	}

	s.setState(StateLoggingIn)

	nameField, err := PutStringField(FieldUserName, username, s.stringEncoding)
	if err != nil {
		return err
	}

	fields := []Field{
		PutEncodedStringField(FieldUserLogin, login),
		PutEncodedStringField(FieldUserPassword, password),
		PutUint16Field(FieldUserIconID, iconID),
		nameField,
		PutUint16Field(FieldVersion, protocolVersion),
	}

	reply, err := s.request(TranLogin, fields...)
	if err != nil {
		s.setState(StateConnected)
		return err
	}

	if reply.ErrorCode != 0 {
		s.setState(StateConnected)
		return &LoginFailedError{Text: reply.ErrorText()}
	}

	if f, ok := reply.Field(FieldServerName); ok {
		s.serverName, _ = f.String(s.stringEncoding)
	}
	if f, ok := reply.Field(FieldVersion); ok {
		if v, err := f.Uint16(); err == nil {
			s.serverVersion = v
		}
	}

	s.setState(StateConnected)
	s.startKeepAlive()
	s.setState(StateLoggedIn)
	s.loggedIn.Store(true)
	s.metrics.SessionLoggedIn()

	return nil
}

// SendAgree answers a server's AgreementRequired event. It is accepted
// in Connected and LoggedIn; a Connected session moves to LoggedIn.
func (s *Session) SendAgree(userName string, iconID uint16, options uint16) error {
	if st := s.State(); st != StateConnected && st != StateLoggedIn {
		return &NotConnectedError{State: st}
	}

	nameField, err := PutStringField(FieldUserName, userName, s.stringEncoding)
	if err != nil {
		return err
	}

	_, err = s.request(TranAgreed, nameField, PutUint16Field(FieldUserIconID, iconID), PutUint16Field(FieldOptions, options))
	if err != nil {
		return err
	}

	s.setState(StateLoggedIn)
	return nil
}

// ID returns a process-local correlation id minted at Dial time. It is
// never sent on the wire; it exists purely so log lines from one
// Session can be grouped together.
func (s *Session) ID() string { return s.id.String() }

// ServerInfo returns the server name and version recorded at login.
func (s *Session) ServerInfo() (name string, version uint16) {
	return s.serverName, s.serverVersion
}

// State returns the Session's current position in the connection
// state machine.
func (s *Session) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
	s.emit(StatusChanged{State: st})
}

// Events returns the Session's event stream. It closes when the
// Session disconnects; callers should keep draining it, because once
// eventBufferSize events are queued further events are dropped.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
		// Slow consumer: drop rather than block the receive loop. This
		// applies to every event kind, StatusChanged included.
		s.logger.WithField("session", s.id.String()).Warn("event stream full, dropping event")
	}
}

// nextTransactionID allocates the next strictly increasing transaction
// id for this Session.
func (s *Session) nextTransactionID() uint32 {
	return atomic.AddUint32(&s.nextID, 1)
}

// request sends a transaction and blocks for its reply, honoring
// replyTimeout.
func (s *Session) request(t TranType, fields ...Field) (Transaction, error) {
	if s.State() == StateDisconnected || s.State() == StateDisconnecting {
		return Transaction{}, &NotConnectedError{State: s.State()}
	}

	id := s.nextTransactionID()
	pending := s.reg.insert(id)

	tx := NewTransaction(t, id, fields...)

	s.writeMu.Lock()
	err := writeTransaction(s.conn, tx)
	s.writeMu.Unlock()
	if err != nil {
		s.reg.remove(id)
		s.metrics.TransactionFailed()
		return Transaction{}, err
	}
	s.metrics.TransactionSent()

	timer := time.NewTimer(s.replyTimeout)
	defer timer.Stop()

	select {
	case reply := <-pending.replyCh:
		return reply, nil
	case err := <-pending.errCh:
		s.metrics.TransactionFailed()
		return Transaction{}, err
	case <-timer.C:
		s.reg.remove(id)
		s.metrics.TransactionFailed()
		return Transaction{}, &TimeoutError{Type: t}
	}
}

// requestOk is request plus permission-semantics translation: a
// nonzero ErrorCode on an otherwise successful reply
// becomes a ServerError. Login uses request directly because a failed
// login reply carries LoginFailedError semantics instead.
func (s *Session) requestOk(t TranType, fields ...Field) (Transaction, error) {
	reply, err := s.request(t, fields...)
	if err != nil {
		return Transaction{}, err
	}
	if reply.ErrorCode != 0 {
		return reply, &ServerError{Code: reply.ErrorCode, Text: reply.ErrorText()}
	}
	return reply, nil
}

// Disconnect tears the Session down: stops the keep-alive and receive
// loops, fails every pending request, and closes the event stream.
func (s *Session) Disconnect() error {
	if s.State() == StateDisconnected {
		return nil
	}
	var err error
	s.disconnectOnce.Do(func() {
		s.setState(StateDisconnecting)
		close(s.quitCh)
		err = s.conn.Close()
		<-s.doneCh
	})
	return err
}

func (s *Session) receiveLoop() {
	defer close(s.doneCh)
	for {
		tx, err := readTransaction(s.conn)
		if err != nil {
			s.teardown(err)
			return
		}

		if tx.IsReply {
			if !s.reg.completeOk(tx.ID, tx) {
				s.logger.WithFields(logrus.Fields{"session": s.id.String(), "id": tx.ID}).
					Debug("dropping reply for unknown or cancelled request")
			}
			continue
		}

		if stop := s.dispatchEvent(tx); stop {
			return
		}
	}
}

// dispatchEvent routes one unsolicited frame to the event stream,
// reporting true when the Session should stop reading (a server-issued
// disconnect).
func (s *Session) dispatchEvent(tx Transaction) bool {
	switch tx.Type {
	case TranChatMsg:
		if f, ok := tx.Field(FieldData); ok {
			text, _ := f.String(s.stringEncoding)
			s.recordChat(text, "chat")
			s.emit(ChatMessage{Text: text})
		}
	case TranServerMsg:
		text := ""
		if f, ok := tx.Field(FieldData); ok {
			text, _ = f.String(s.stringEncoding)
		}
		if f, ok := tx.Field(FieldUserIconID); ok {
			userID, _ := f.Uint16()
			s.emit(PrivateMessage{FromUserID: userID, Text: text})
		} else {
			s.recordChat(text, "broadcast")
			s.emit(ServerBroadcast{Text: text})
		}
	case TranNotifyChangeUser:
		if f, ok := tx.Field(FieldUserNameWithInfo); ok {
			u, err := decodeUser(f.Data, s.stringEncoding)
			if err == nil {
				if s.rememberUser(u.ID) {
					s.emit(UserJoined{User: u})
				} else {
					s.emit(UserChanged{User: u})
				}
			}
		}
	case TranNotifyDeleteUser:
		if f, ok := tx.Field(FieldUserIconID); ok {
			id, _ := f.Uint16()
			s.forgetUser(id)
			s.emit(UserLeft{UserID: id})
		}
	case TranNewMsg:
		text := ""
		if f, ok := tx.Field(FieldData); ok {
			text, _ = f.String(s.stringEncoding)
		}
		s.emit(NewsPosted{Text: text})
	case TranShowAgreement:
		if _, noAgreement := tx.Field(FieldNoServerAgree); noAgreement {
			return false
		}
		text := ""
		if f, ok := tx.Field(FieldData); ok {
			text, _ = f.String(s.stringEncoding)
		}
		s.emit(AgreementRequired{Text: text})
	case TranUserAccess:
		if f, ok := tx.Field(FieldUserAccess); ok {
			bits, _ := f.Uint64()
			s.emit(UserAccess{Bitmask: bits})
		}
	case TranDisconnectMsg, TranDisconnectUser:
		s.conn.Close()
		s.teardown(&IOError{Cause: errors.New("disconnected by server")})
		return true
	default:
		s.logger.WithFields(logrus.Fields{"session": s.id.String(), "type": tx.Type.String()}).
			Debug("unhandled unsolicited transaction")
	}
	return false
}

// rememberUser records userID as known, reporting true the first time
// it's seen — the signal dispatchEvent uses to distinguish a join from
// a subsequent info change on the same TranNotifyChangeUser transaction
// (the wire protocol does not separate the two, as jhalter/mobius's
// client-side handling shows).
func (s *Session) rememberUser(userID uint16) bool {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	if _, ok := s.knownUsers[userID]; ok {
		return false
	}
	s.knownUsers[userID] = struct{}{}
	return true
}

func (s *Session) forgetUser(userID uint16) {
	s.usersMu.Lock()
	delete(s.knownUsers, userID)
	s.usersMu.Unlock()
}

func (s *Session) recordChat(text, kind string) {
	if s.chatHistorySink == nil {
		return
	}
	s.chatHistorySink(ChatRecord{Body: text, Type: kind})
}

// teardown runs once, from whichever goroutine first observes EOF or a
// decode failure: it drains pending requests, closes the event stream,
// and moves the Session to Disconnected.
func (s *Session) teardown(cause error) {
	s.teardownOnce.Do(func() {
		select {
		case <-s.quitCh:
		default:
			close(s.quitCh)
		}
		s.reg.drain(&NotConnectedError{State: StateDisconnected})
		s.setState(StateDisconnected)
		if s.loggedIn.CompareAndSwap(true, false) {
			s.metrics.SessionDisconnected()
		}
		s.emit(Disconnected{Reason: cause})
		close(s.events)
	})
}
