package blob

import (
	"fmt"
	"strings"
)

// DefaultEndpointSuffix is the public Azure storage DNS suffix used when the
// connection string does not carry one.
const DefaultEndpointSuffix = "core.windows.net"

// Credentials identify a storage account and its shared signing key.
type Credentials struct {
	AccountName    string
	AccountKey     string
	EndpointSuffix string
}

// ParseConnectionString extracts account credentials from a semicolon-separated
// Key=Value connection string. A missing string or missing AccountName/AccountKey
// is a configuration error and must abort startup: no SAS can be signed without
// the shared key.
func ParseConnectionString(cs string) (Credentials, error) {
	if strings.TrimSpace(cs) == "" {
		return Credentials{}, fmt.Errorf("blob: storage connection string is not set")
	}

	creds := Credentials{EndpointSuffix: DefaultEndpointSuffix}
	for _, segment := range strings.Split(cs, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		switch key {
		case "AccountName":
			creds.AccountName = value
		case "AccountKey":
			// Keys are base64 and may themselves contain '='; Cut keeps the remainder intact.
			creds.AccountKey = value
		case "EndpointSuffix":
			if value != "" {
				creds.EndpointSuffix = value
			}
		}
	}

	if creds.AccountName == "" {
		return Credentials{}, fmt.Errorf("blob: connection string is missing AccountName")
	}
	if creds.AccountKey == "" {
		return Credentials{}, fmt.Errorf("blob: connection string is missing AccountKey")
	}

	return creds, nil
}
