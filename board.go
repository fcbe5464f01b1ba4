package hotline

// GetMessageBoard fetches the flat message board text.
func (s *Session) GetMessageBoard() (string, error) {
	reply, err := s.requestOk(TranGetMessageBoard)
	if err != nil {
		return "", err
	}
	f, ok := reply.Field(FieldData)
	if !ok {
		return "", nil
	}
	return f.String(s.stringEncoding)
}

// PostMessageBoard appends text to the message board.
func (s *Session) PostMessageBoard(text string) error {
	textField, err := PutStringField(FieldData, text, s.stringEncoding)
	if err != nil {
		return err
	}
	_, err = s.requestOk(TranPostMessageBoard, textField)
	return err
}
