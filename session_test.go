package hotline

import (
	"errors"
	"net"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

// fakeServer is a minimal Hotline control-channel server used to drive
// the literal end-to-end scenarios a Session must satisfy: it performs
// the handshake on the first accepted connection, then runs a
// caller-supplied script against it.
type fakeServer struct {
	ln net.Listener
}

func newFakeServer(t *testing.T) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	return &fakeServer{ln: ln}
}

func (s *fakeServer) addr() string { return s.ln.Addr().String() }
func (s *fakeServer) close()       { s.ln.Close() }

func (s *fakeServer) serve(script func(conn net.Conn)) {
	go func() {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		magic := make([]byte, len(controlHandshakeMagic))
		if err := readExact(conn, magic); err != nil {
			return
		}
		conn.Write([]byte{'T', 'R', 'T', 'P', 0, 0, 0, 0})

		script(conn)
	}()
}

func recvTx(t *testing.T, conn net.Conn) Transaction {
	t.Helper()
	tx, err := readTransaction(conn)
	assert.NilError(t, err)
	return tx
}

func sendReply(t *testing.T, conn net.Conn, id uint32, errorCode uint32, fields ...Field) {
	t.Helper()
	assert.NilError(t, writeTransaction(conn, Transaction{IsReply: true, ID: id, ErrorCode: errorCode, Fields: fields}))
}

func sendUnsolicited(t *testing.T, conn net.Conn, typ TranType, fields ...Field) {
	t.Helper()
	assert.NilError(t, writeTransaction(conn, Transaction{Type: typ, Fields: fields}))
}

func dialTestSession(t *testing.T, addr string) *Session {
	t.Helper()
	sess, err := Dial(addr, WithHandshakeTimeout(2*time.Second), WithReplyTimeout(2*time.Second))
	assert.NilError(t, err)
	return sess
}

// TestSessionLoginSuccess covers a successful login handshake: Dial,
// then Login transitions the session through to StateLoggedIn and
// records the server's name/version.
func TestSessionLoginSuccess(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	srv.serve(func(conn net.Conn) {
		login := recvTx(t, conn)
		if login.Type != TranLogin {
			return
		}
		nameField, _ := PutStringField(FieldServerName, "Test", MacRoman)
		sendReply(t, conn, login.ID, 0, nameField, PutUint16Field(FieldVersion, 151))
	})

	sess := dialTestSession(t, srv.addr())
	defer sess.Disconnect()

	assert.NilError(t, sess.Login("guest", "", "Alice", 414))
	assert.Equal(t, sess.State(), StateLoggedIn)

	name, version := sess.ServerInfo()
	assert.Equal(t, name, "Test")
	assert.Equal(t, version, uint16(151))
}

// TestSessionChatRoundTrip sends a chat line and expects the echoed
// chat message back as an event.
func TestSessionChatRoundTrip(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	srv.serve(func(conn net.Conn) {
		login := recvTx(t, conn)
		sendReply(t, conn, login.ID, 0)

		chat := recvTx(t, conn)
		if chat.Type != TranChatSend {
			return
		}
		sendReply(t, conn, chat.ID, 0)
		textField, _ := PutStringField(FieldData, " Alice:  hello", MacRoman)
		sendUnsolicited(t, conn, TranChatMsg, textField)
	})

	sess := dialTestSession(t, srv.addr())
	defer sess.Disconnect()
	assert.NilError(t, sess.Login("", "", "Alice", 414))

	assert.NilError(t, sess.SendChat("hello", false))

	// Dial and Login have already queued StatusChanged events for each
	// state transition; the chat message is the first event after them.
	for {
		select {
		case ev := <-sess.Events():
			if _, status := ev.(StatusChanged); status {
				continue
			}
			msg, ok := ev.(ChatMessage)
			assert.Assert(t, ok)
			assert.Equal(t, msg.Text, " Alice:  hello")
			return
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for chat event")
		}
	}
}

// TestSessionFileListing lists a folder containing one subfolder and
// one file and checks both decode correctly.
func TestSessionFileListing(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	srv.serve(func(conn net.Conn) {
		login := recvTx(t, conn)
		sendReply(t, conn, login.ID, 0)

		list := recvTx(t, conn)
		if list.Type != TranGetFileNameList {
			return
		}
		folder := FileInfo{Type: FolderTypeCode, Creator: "\x00\x00\x00\x00", Size: 3, Name: "Docs"}
		folderBytes, _ := folder.Encode(MacRoman)
		file := FileInfo{Type: "TEXT", Creator: "ttxt", Size: 1234, Name: "readme.txt"}
		fileBytes, _ := file.Encode(MacRoman)

		sendReply(t, conn, list.ID, 0,
			NewField(FieldFileNameWithInfo, folderBytes),
			NewField(FieldFileNameWithInfo, fileBytes),
		)
	})

	sess := dialTestSession(t, srv.addr())
	defer sess.Disconnect()
	assert.NilError(t, sess.Login("", "", "Alice", 414))

	files, err := sess.GetFileList(nil)
	assert.NilError(t, err)
	assert.Equal(t, len(files), 2)

	assert.Equal(t, files[0].Name, "Docs")
	assert.Assert(t, files[0].IsFolder())
	assert.Equal(t, files[0].Size, uint32(3))

	assert.Equal(t, files[1].Name, "readme.txt")
	assert.Equal(t, files[1].Size, uint32(1234))
	assert.DeepEqual(t, files[1].Path, []string{"readme.txt"})
}

// TestSessionRequestTimeoutFreesSlot checks that a reply withheld past
// the deadline surfaces exactly one TimeoutError and that the
// registry no longer holds the pending slot afterward.
func TestSessionRequestTimeoutFreesSlot(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	srv.serve(func(conn net.Conn) {
		login := recvTx(t, conn)
		sendReply(t, conn, login.ID, 0)

		recvTx(t, conn) // DeleteUser; never replied to, so it times out
	})

	sess, err := Dial(srv.addr(), WithHandshakeTimeout(2*time.Second), WithReplyTimeout(100*time.Millisecond))
	assert.NilError(t, err)
	defer sess.Disconnect()
	assert.NilError(t, sess.Login("", "", "Alice", 414))

	err = sess.DeleteUser("ghost")
	var timeoutErr *TimeoutError
	assert.Assert(t, errors.As(err, &timeoutErr))
	assert.Equal(t, timeoutErr.Type, TranDeleteUser)

	sess.reg.mu.Lock()
	pending := len(sess.reg.pending)
	sess.reg.mu.Unlock()
	assert.Equal(t, pending, 0)
}

// TestSessionAdminDenied checks that a permission-denied reply surfaces
// as a ServerError without tearing down the session.
func TestSessionAdminDenied(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	srv.serve(func(conn net.Conn) {
		login := recvTx(t, conn)
		sendReply(t, conn, login.ID, 0)

		del := recvTx(t, conn)
		if del.Type != TranDeleteUser {
			return
		}
		textField, _ := PutStringField(FieldErrorText, "Permission denied", MacRoman)
		sendReply(t, conn, del.ID, 1, textField)
	})

	sess := dialTestSession(t, srv.addr())
	defer sess.Disconnect()
	assert.NilError(t, sess.Login("", "", "Alice", 414))

	err := sess.DeleteUser("ghost")
	var serverErr *ServerError
	assert.Assert(t, errors.As(err, &serverErr))
	assert.Equal(t, serverErr.Code, uint32(1))
	assert.Equal(t, serverErr.Text, "Permission denied")
	assert.Equal(t, sess.State(), StateLoggedIn)
}
