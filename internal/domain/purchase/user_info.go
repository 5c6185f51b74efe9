package purchase

// UserInfo carries the customer identity fields collected on the payment
// form. Validation happens at the value-object layer before assembly.
type UserInfo struct {
	Email       string
	Username    string
	FirstName   string
	LastName    string
	CountryCode string
	ZipCode     string
	Address     string
	City        string
	State       string
	PhoneNumber string
	IPAddress   string
}

// ToSnapshot flattens the user info for session persistence.
func (u UserInfo) ToSnapshot() map[string]any {
	return map[string]any{
		"email":       u.Email,
		"username":    u.Username,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"countryCode": u.CountryCode,
		"zipCode":     u.ZipCode,
		"address":     u.Address,
		"city":        u.City,
		"state":       u.State,
		"phoneNumber": u.PhoneNumber,
		"ipAddress":   u.IPAddress,
	}
}

// UserInfoFromSnapshot rebuilds the user info from persisted session data.
func UserInfoFromSnapshot(data map[string]any) UserInfo {
	return UserInfo{
		Email:       snapString(data, "email"),
		Username:    snapString(data, "username"),
		FirstName:   snapString(data, "firstName"),
		LastName:    snapString(data, "lastName"),
		CountryCode: snapString(data, "countryCode"),
		ZipCode:     snapString(data, "zipCode"),
		Address:     snapString(data, "address"),
		City:        snapString(data, "city"),
		State:       snapString(data, "state"),
		PhoneNumber: snapString(data, "phoneNumber"),
		IPAddress:   snapString(data, "ipAddress"),
	}
}

// PaymentInfo carries the non-sensitive payment descriptor for the session.
// Full card numbers never reach the core; billers tokenize upstream.
type PaymentInfo struct {
	PaymentType     string
	PaymentMethod   string
	Bin             string
	LastFour        string
	ExpirationMonth int
	ExpirationYear  int
}

// AtlasFields carries the traffic-attribution fields forwarded from the
// Atlas tracking system.
type AtlasFields struct {
	AtlasCode string
	AtlasData string
}

// ToSnapshot flattens the atlas fields for session persistence.
func (a AtlasFields) ToSnapshot() map[string]any {
	return map[string]any{
		"atlasCode": a.AtlasCode,
		"atlasData": a.AtlasData,
	}
}

// AtlasFieldsFromSnapshot rebuilds the atlas fields from persisted data.
func AtlasFieldsFromSnapshot(data map[string]any) AtlasFields {
	return AtlasFields{
		AtlasCode: snapString(data, "atlasCode"),
		AtlasData: snapString(data, "atlasData"),
	}
}
