package hotline

// GetUserList returns the server's current connected-user list.
func (s *Session) GetUserList() ([]User, error) {
	reply, err := s.requestOk(TranGetUserNameList)
	if err != nil {
		return nil, err
	}
	var users []User
	for _, f := range reply.Fields {
		if f.Type != FieldUserNameWithInfo {
			continue
		}
		u, err := decodeUser(f.Data, s.stringEncoding)
		if err != nil {
			return nil, err
		}
		s.rememberUser(u.ID)
		users = append(users, u)
	}
	return users, nil
}
