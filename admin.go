package hotline

// Account is an administrative user-account record, distinct from the
// connected-user records GetUserList returns.
type Account struct {
	Login    string
	Name     string
	Password string
	Access   uint64
}

// GetAccounts lists every registered account. Gated by admin access
// bits; a non-admin caller observes ServerError{code=1}.
func (s *Session) GetAccounts() ([]Account, error) {
	reply, err := s.requestOk(TranListUsers)
	if err != nil {
		return nil, err
	}
	var accounts []Account
	for _, f := range reply.Fields {
		if f.Type != FieldData {
			continue
		}
		acct, err := decodeAccount(f.Data, s.stringEncoding)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// CreateUser registers a new account.
func (s *Session) CreateUser(login, name, password string, access uint64) error {
	fields, err := accountFields(login, name, password, access, s.stringEncoding)
	if err != nil {
		return err
	}
	_, err = s.requestOk(TranNewUser, fields...)
	return err
}

// SetUser updates an existing account. An empty password leaves the
// current password unchanged.
func (s *Session) SetUser(login, name, password string, access uint64) error {
	fields, err := accountFields(login, name, password, access, s.stringEncoding)
	if err != nil {
		return err
	}
	_, err = s.requestOk(TranSetUser, fields...)
	return err
}

// DeleteUser removes an account by login.
func (s *Session) DeleteUser(login string) error {
	_, err := s.requestOk(TranDeleteUser, PutEncodedStringField(FieldUserLogin, login))
	return err
}

func accountFields(login, name, password string, access uint64, enc StringEncoding) ([]Field, error) {
	nameField, err := PutStringField(FieldUserName, name, enc)
	if err != nil {
		return nil, err
	}
	accessBytes := make([]byte, 8)
	for i := 0; i < 8; i++ {
		accessBytes[7-i] = byte(access >> (8 * i))
	}
	return []Field{
		PutEncodedStringField(FieldUserLogin, login),
		nameField,
		PutEncodedStringField(FieldUserPassword, password),
		NewField(FieldUserAccess, accessBytes),
	}, nil
}

func decodeAccount(b []byte, enc StringEncoding) (Account, error) {
	// The whole FieldData payload is XOR-decoded and returned as Login;
	// Name, Password and Access are left zero. Callers that need the
	// other components read the raw field via Transaction.Field.
	login, err := decodeString(xorComplement(b), enc)
	if err != nil {
		return Account{}, err
	}
	return Account{Login: login}, nil
}
