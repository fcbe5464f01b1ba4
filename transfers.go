package hotline

// TransferTicket is what a transfer-request operation hands back: a
// server-issued reference number addressing the not-yet-opened
// transfer slot, plus the sizing information the transfer engine needs
// before it dials the transfer channel.
type TransferTicket struct {
	RefNum     uint32
	Size       uint32
	ItemCount  uint32 // folders only; zero for single-file transfers
	IsFolder   bool
}

// RequestDownloadFile requests a reference number to download name
// from path. preview requests the lightweight preview variant instead
// of the full FILP stream.
func (s *Session) RequestDownloadFile(name string, path []string, preview bool) (TransferTicket, error) {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return TransferTicket{}, err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return TransferTicket{}, err
	}
	fields = append([]Field{nameField}, fields...)
	if preview {
		fields = append(fields, PutUint16Field(FieldFileTransferOpts, 1))
	}

	tranType := TranDownloadFile
	reply, err := s.requestOk(tranType, fields...)
	if err != nil {
		return TransferTicket{}, err
	}
	return transferTicketFromReply(reply)
}

// RequestDownloadFolder requests a reference number to download an
// entire folder.
func (s *Session) RequestDownloadFolder(name string, path []string) (TransferTicket, error) {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return TransferTicket{}, err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return TransferTicket{}, err
	}
	fields = append([]Field{nameField}, fields...)

	reply, err := s.requestOk(TranDownloadFldr, fields...)
	if err != nil {
		return TransferTicket{}, err
	}
	ticket, err := transferTicketFromReply(reply)
	ticket.IsFolder = true
	return ticket, err
}

// RequestUploadFile requests a reference number to upload name into
// path. No size is sent with this request; transfer.NewFileUpload
// reports the flattened FILP byte count in its HTXF handshake.
func (s *Session) RequestUploadFile(name string, path []string) (TransferTicket, error) {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return TransferTicket{}, err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return TransferTicket{}, err
	}
	fields = append([]Field{nameField}, fields...)

	reply, err := s.requestOk(TranUploadFile, fields...)
	if err != nil {
		return TransferTicket{}, err
	}
	return transferTicketFromReply(reply)
}

// RequestUploadFolder requests a reference number to upload an entire
// local folder containing fileCount files totalling totalSize bytes.
func (s *Session) RequestUploadFolder(name string, path []string, fileCount uint32, totalSize uint32) (TransferTicket, error) {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return TransferTicket{}, err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return TransferTicket{}, err
	}
	fields = append([]Field{nameField}, fields...)
	fields = append(fields,
		PutUint32Field(FieldTransferSize, totalSize),
		PutUint32Field(FieldWaitingCount, fileCount),
	)

	reply, err := s.requestOk(TranUploadFldr, fields...)
	if err != nil {
		return TransferTicket{}, err
	}
	ticket, err := transferTicketFromReply(reply)
	ticket.IsFolder = true
	return ticket, err
}

// RequestBanner requests a reference number for the server's banner
// image, the preview/banner raw-stream variant.
func (s *Session) RequestBanner() (TransferTicket, error) {
	reply, err := s.requestOk(TranDownloadBanner)
	if err != nil {
		return TransferTicket{}, err
	}
	return transferTicketFromReply(reply)
}

// TransferAddr returns the (host, port) a transfer engine should dial
// for this Session: the control host with transferPortOffset applied.
func (s *Session) TransferAddr() (host string, port int) {
	base := 0
	for _, c := range s.port {
		base = base*10 + int(c-'0')
	}
	return s.host, base + s.transferPortOffset
}

func transferTicketFromReply(reply Transaction) (TransferTicket, error) {
	var t TransferTicket
	if f, ok := reply.Field(FieldRefNum); ok {
		v, err := f.Uint32()
		if err != nil {
			return t, err
		}
		t.RefNum = v
	}
	if f, ok := reply.Field(FieldTransferSize); ok {
		v, err := f.Uint32()
		if err != nil {
			return t, err
		}
		t.Size = v
	}
	if f, ok := reply.Field(FieldWaitingCount); ok {
		v, err := f.Uint32()
		if err != nil {
			return t, err
		}
		t.ItemCount = v
	}
	return t, nil
}
