package hotline

import (
	"time"

	"github.com/sirupsen/logrus"
)

// startKeepAlive runs a ticker-based loop that sends a keep-alive
// transaction at a fixed period rather than only on idle timeout.
func (s *Session) startKeepAlive() {
	go func() {
		ticker := time.NewTicker(s.keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sendKeepAlive()
			case <-s.quitCh:
				return
			}
		}
	}()
}

func (s *Session) sendKeepAlive() {
	var err error
	if s.serverVersion >= keepAliveTranVersion {
		_, err = s.request(TranKeepAlive)
	} else {
		_, err = s.request(TranGetUserNameList)
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"session": s.id.String(),
			"error":   err.Error(),
		}).Debug("keep-alive failed")
	}
}
