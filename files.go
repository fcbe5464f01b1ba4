package hotline

// GetFileList lists the files and folders at path (empty path is the
// server's shared file root). Results are returned in the order the
// server sends them; caching, if any, is the embedder's responsibility.
func (s *Session) GetFileList(path []string) ([]FileInfo, error) {
	fields, err := s.pathFields(path)
	if err != nil {
		return nil, err
	}
	reply, err := s.requestOk(TranGetFileNameList, fields...)
	if err != nil {
		return nil, err
	}
	var files []FileInfo
	for _, f := range reply.Fields {
		if f.Type != FieldFileNameWithInfo {
			continue
		}
		fi, err := decodeFileInfo(f.Data, s.stringEncoding)
		if err != nil {
			return nil, err
		}
		fi.Path = append(append([]string{}, path...), fi.Name)
		files = append(files, fi)
	}
	return files, nil
}

// GetFileInfo fetches the extended record for a single file or folder.
func (s *Session) GetFileInfo(name string, path []string) (FileInfo, error) {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return FileInfo{}, err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return FileInfo{}, err
	}
	fields = append([]Field{nameField}, fields...)

	reply, err := s.requestOk(TranGetFileInfo, fields...)
	if err != nil {
		return FileInfo{}, err
	}

	fi := FileInfo{Name: name, Path: append(append([]string{}, path...), name)}
	if f, ok := reply.Field(FieldFileTypeString); ok {
		fi.Type, _ = f.String(s.stringEncoding)
	}
	if f, ok := reply.Field(FieldFileCreatorString); ok {
		fi.Creator, _ = f.String(s.stringEncoding)
	}
	if f, ok := reply.Field(FieldFileSize); ok {
		fi.Size, _ = f.Uint32()
	}
	return fi, nil
}

// SetFileInfo renames and/or updates the comment of a file or folder.
// Either newName or comment may be empty to leave that attribute alone.
func (s *Session) SetFileInfo(name string, path []string, newName, comment string) error {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return err
	}
	fields = append([]Field{nameField}, fields...)

	if newName != "" {
		f, err := PutStringField(FieldFileNewName, newName, s.stringEncoding)
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}
	if comment != "" {
		f, err := PutStringField(FieldFileComment, comment, s.stringEncoding)
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}

	_, err = s.requestOk(TranSetFileInfo, fields...)
	return err
}

// DeleteFile removes a file or folder.
func (s *Session) DeleteFile(name string, path []string) error {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return err
	}
	_, err = s.requestOk(TranDeleteFile, append([]Field{nameField}, fields...)...)
	return err
}

// NewFolder creates a folder named name under path.
func (s *Session) NewFolder(name string, path []string) error {
	nameField, err := PutStringField(FieldFileName, name, s.stringEncoding)
	if err != nil {
		return err
	}
	fields, err := s.pathFields(path)
	if err != nil {
		return err
	}
	_, err = s.requestOk(TranNewFolder, append([]Field{nameField}, fields...)...)
	return err
}

// pathFields encodes path as a FieldFilePath field, omitting it
// entirely for the root (empty path), which most servers require.
func (s *Session) pathFields(path []string) ([]Field, error) {
	if len(path) == 0 {
		return nil, nil
	}
	b, err := EncodePathList(path, s.stringEncoding)
	if err != nil {
		return nil, err
	}
	return []Field{NewField(FieldFilePath, b)}, nil
}
