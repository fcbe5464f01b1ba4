package hotline

// SendChat sends a chat line to the public chat room. announce, when
// true, sets the chat-options bit servers use to render server-wide
// announcements distinctly.
func (s *Session) SendChat(text string, announce bool) error {
	textField, err := PutStringField(FieldData, text, s.stringEncoding)
	if err != nil {
		return err
	}
	fields := []Field{textField}
	if announce {
		fields = append(fields, PutUint16Field(FieldChatOptions, 1))
	}
	_, err = s.requestOk(TranChatSend, fields...)
	return err
}

// SendBroadcast sends an administrative server-wide broadcast. Most
// servers gate this on admin access bits; a non-admin caller observes
// a ServerError{code=1} the same way any other denied operation does.
func (s *Session) SendBroadcast(text string) error {
	textField, err := PutStringField(FieldData, text, s.stringEncoding)
	if err != nil {
		return err
	}
	_, err = s.requestOk(TranServerMsg, textField)
	return err
}

// SendInstantMessage sends a private message to a connected user.
func (s *Session) SendInstantMessage(userID uint16, text string) error {
	textField, err := PutStringField(FieldData, text, s.stringEncoding)
	if err != nil {
		return err
	}
	_, err = s.requestOk(TranSendInstantMsg, PutUint16Field(FieldUserIconID, userID), textField)
	return err
}

// SetClientUserInfo updates the caller's own display name and icon,
// and optionally an autoresponse string shown to users who IM while
// the caller is away.
func (s *Session) SetClientUserInfo(name string, iconID uint16, autoresponse string) error {
	nameField, err := PutStringField(FieldUserName, name, s.stringEncoding)
	if err != nil {
		return err
	}
	fields := []Field{nameField, PutUint16Field(FieldUserIconID, iconID)}
	if autoresponse != "" {
		respField, err := PutStringField(FieldAutomaticResp, autoresponse, s.stringEncoding)
		if err != nil {
			return err
		}
		fields = append(fields, respField)
	}
	_, err = s.requestOk(TranSetClientUserInfo, fields...)
	return err
}
