package hotline

// GetNewsCategories lists the news bundles/categories at path (empty
// path is the news root).
func (s *Session) GetNewsCategories(path []string) ([]NewsCategory, error) {
	fields, err := s.newsPathFields(path)
	if err != nil {
		return nil, err
	}
	reply, err := s.requestOk(TranGetNewsCatNameList, fields...)
	if err != nil {
		return nil, err
	}
	var cats []NewsCategory
	for _, f := range reply.Fields {
		if f.Type != FieldNewsCatListData {
			continue
		}
		cat, err := decodeNewsCategory(f.Data, s.stringEncoding)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// GetNewsArticles lists the article headers at path.
func (s *Session) GetNewsArticles(path []string) ([]NewsArticle, error) {
	fields, err := s.newsPathFields(path)
	if err != nil {
		return nil, err
	}
	reply, err := s.requestOk(TranGetNewsArtNameList, fields...)
	if err != nil {
		return nil, err
	}
	f, ok := reply.Field(FieldNewsArtData)
	if !ok {
		return nil, nil
	}
	return decodeNewsArticleList(f.Data, s.stringEncoding)
}

// GetNewsArticle fetches one article's body in the requested MIME
// flavor (e.g. "text/plain").
func (s *Session) GetNewsArticle(id uint32, path []string, flavor string) (string, error) {
	fields, err := s.newsPathFields(path)
	if err != nil {
		return "", err
	}
	flavorField, err := PutStringField(FieldNewsArtDataFlav, flavor, s.stringEncoding)
	if err != nil {
		return "", err
	}
	fields = append(fields, PutUint32Field(FieldNewsArtID, id), flavorField)

	reply, err := s.requestOk(TranGetNewsArtData, fields...)
	if err != nil {
		return "", err
	}
	f, ok := reply.Field(FieldNewsArtData)
	if !ok {
		return "", nil
	}
	return f.String(s.stringEncoding)
}

// PostNewsArticle posts a new article under parentID (0 for a
// top-level post) at path.
func (s *Session) PostNewsArticle(title, text string, path []string, parentID uint32) error {
	fields, err := s.newsPathFields(path)
	if err != nil {
		return err
	}
	titleField, err := PutStringField(FieldNewsArtTitle, title, s.stringEncoding)
	if err != nil {
		return err
	}
	textField, err := PutStringField(FieldNewsArtData, text, s.stringEncoding)
	if err != nil {
		return err
	}
	fields = append(fields, titleField, textField, PutUint32Field(FieldNewsArtParent, parentID))

	_, err = s.requestOk(TranPostNewsArt, fields...)
	return err
}

func (s *Session) newsPathFields(path []string) ([]Field, error) {
	if len(path) == 0 {
		return nil, nil
	}
	b, err := EncodePathList(path, s.stringEncoding)
	if err != nil {
		return nil, err
	}
	return []Field{NewField(FieldNewsPath, b)}, nil
}

func decodeNewsCategory(b []byte, enc StringEncoding) (NewsCategory, error) {
	if len(b) < 4 {
		return NewsCategory{}, &InvalidResponseError{Reason: "short news category record"}
	}
	kind := NewsCategoryKind(uint16(b[0])<<8 | uint16(b[1]))
	itemCount := uint16(b[2])<<8 | uint16(b[3])
	offset := 4
	var cat NewsCategory
	cat.Kind = kind
	cat.ItemCount = itemCount
	if offset+2 > len(b) {
		return cat, nil
	}
	nameLen := int(b[offset])<<8 | int(b[offset+1])
	offset += 2
	if offset+nameLen > len(b) {
		return NewsCategory{}, &InvalidResponseError{Reason: "news category name truncated"}
	}
	name, err := decodeString(b[offset:offset+nameLen], enc)
	if err != nil {
		return NewsCategory{}, err
	}
	cat.Name = name
	offset += nameLen
	if offset+16 <= len(b) {
		copy(cat.GUID[:], b[offset:offset+16])
	}
	return cat, nil
}
