package fraud

// NuDataSettings configures the NuData device-intelligence widget embedded
// in the payment form.
type NuDataSettings struct {
	ClientID string
	URL      string
	Enabled  bool
}

func NewNuDataSettings(clientID, url string, enabled bool) NuDataSettings {
	return NuDataSettings{ClientID: clientID, URL: url, Enabled: enabled}
}

// ToSnapshot flattens the settings for session persistence.
func (n NuDataSettings) ToSnapshot() map[string]any {
	return map[string]any{
		"clientId": n.ClientID,
		"url":      n.URL,
		"enabled":  n.Enabled,
	}
}

// NuDataSettingsFromSnapshot rebuilds the settings from persisted data.
func NuDataSettingsFromSnapshot(data map[string]any) NuDataSettings {
	n := NuDataSettings{}
	if v, ok := data["clientId"].(string); ok {
		n.ClientID = v
	}
	if v, ok := data["url"].(string); ok {
		n.URL = v
	}
	if v, ok := data["enabled"].(bool); ok {
		n.Enabled = v
	}
	return n
}
