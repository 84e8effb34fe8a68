package blob

import "testing"

func TestParseConnectionString(t *testing.T) {
	cs := "DefaultEndpointsProtocol=https;AccountName=devstore;AccountKey=c2VjcmV0LWtleQ==;EndpointSuffix=core.windows.net"

	creds, err := ParseConnectionString(cs)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if creds.AccountName != "devstore" {
		t.Errorf("account name = %q, want devstore", creds.AccountName)
	}
	if creds.AccountKey != "c2VjcmV0LWtleQ==" {
		t.Errorf("account key = %q, want base64 value with padding intact", creds.AccountKey)
	}
	if creds.EndpointSuffix != "core.windows.net" {
		t.Errorf("endpoint suffix = %q", creds.EndpointSuffix)
	}
}

func TestParseConnectionStringDefaultsEndpointSuffix(t *testing.T) {
	creds, err := ParseConnectionString("AccountName=devstore;AccountKey=a2V5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if creds.EndpointSuffix != DefaultEndpointSuffix {
		t.Errorf("endpoint suffix = %q, want %q", creds.EndpointSuffix, DefaultEndpointSuffix)
	}
}

func TestParseConnectionStringErrors(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"blank":       "   ",
		"missing key": "AccountName=devstore",
		"missing name": "AccountKey=a2V5",
	}

	for name, cs := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseConnectionString(cs); err == nil {
				t.Fatalf("expected error for %q", cs)
			}
		})
	}
}
