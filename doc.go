// Package hotline implements a Hotline BBS protocol client core: the
// TRTP/HOTL framing codec, a Session covering login, chat, file and
// news browsing, administration, and keep-alive, plus the supporting
// hotline/transfer and hotline/tracker packages for file transfers and
// tracker listings.
//
// # Overview
//
// The package is a library, not an application. An embedder dials a
// Session, drives it with request/reply calls, and reads unsolicited
// server activity off an event stream:
//
//	sess, err := hotline.Dial("bbs.example.com:5500")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Disconnect()
//
//	if err := sess.Login("", "", "guest", 414); err != nil {
//	    log.Fatal(err)
//	}
//
// # Events
//
// Once logged in, a Session delivers chat, user presence, news, and
// disconnect notifications on the channel returned by Events. Callers
// should keep draining it; it closes when the Session disconnects.
//
//	for ev := range sess.Events() {
//	    switch e := ev.(type) {
//	    case hotline.ChatMessage:
//	        fmt.Println(e.Text)
//	    case hotline.Disconnected:
//	        return
//	    }
//	}
//
// # Transfers
//
// File and folder transfers run on a separate TCP channel per transfer
// and are not handled by Session directly. A Request* call on Session
// hands back a hotline.TransferTicket; pass its fields into the
// matching hotline/transfer constructor, which dials TransferAddr
// itself and reports progress on its own channel:
//
//	ticket, err := sess.RequestDownloadFile("readme.txt", nil, false)
//	host, port := sess.TransferAddr()
//	t, err := transfer.NewFileDownload(host, port, transfer.Ticket{
//	    RefNum: ticket.RefNum, Size: ticket.Size,
//	}, "./downloads")
//	for p := range t.Progress() {
//	    // ...
//	}
//	err = t.Wait()
//
// # Error Handling
//
// Operations return the concrete error types in errors.go
// (NotConnectedError, ServerError, TimeoutError, and others). Use
// errors.As to recover the typed detail:
//
//	var serverErr *hotline.ServerError
//	if errors.As(err, &serverErr) {
//	    fmt.Println("denied:", serverErr.Code)
//	}
package hotline
