package models

// Domain represents a custom domain attached to an application.
type Domain struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	SSL                bool   `json:"ssl"`
	Canonical          bool   `json:"canonical"`
	LetsEncryptEnabled bool   `json:"letsencrypt_enabled"`
	LetsEncrypt        bool   `json:"letsencrypt"`
	LetsEncryptStatus  string `json:"letsencrypt_status"`
	TLSCert            string `json:"tlscert,omitempty"`
	TLSKey             string `json:"tlskey,omitempty"`
	Validity           string `json:"validity,omitempty"`
}

// URL returns the address the domain is served on.
func (d Domain) URL() string {
	if d.SSL {
		return "https://" + d.Name
	}
	return "http://" + d.Name
}

// PrimaryDomain picks the domain to display first: the canonical one,
// then the first with SSL, then the first in the list.
// It returns nil when domains is empty.
func PrimaryDomain(domains []Domain) *Domain {
	if len(domains) == 0 {
		return nil
	}
	for i := range domains {
		if domains[i].Canonical {
			return &domains[i]
		}
	}
	for i := range domains {
		if domains[i].SSL {
			return &domains[i]
		}
	}
	return &domains[0]
}
