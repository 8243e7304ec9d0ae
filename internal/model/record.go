package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldRecord holds the values extracted from one listing page. Every field is
// always present; a field the page (or rule set) does not provide is an empty
// string, never a missing key. Records are built fresh per scrape and not
// mutated afterwards.
type FieldRecord struct {
	EntityName    string `json:"entity_name" yaml:"entity_name"`
	Address       string `json:"address" yaml:"address"`
	Phone         string `json:"phone" yaml:"phone"`
	WebsiteURL    string `json:"website_url" yaml:"website_url"`
	WebsiteAnchor string `json:"website_anchor" yaml:"website_anchor"`
	Hours         string `json:"hours" yaml:"hours"`
}

// Get returns the value for the given field kind.
func (r FieldRecord) Get(kind FieldKind) string {
	switch kind {
	case FieldEntityName:
		return r.EntityName
	case FieldAddress:
		return r.Address
	case FieldPhone:
		return r.Phone
	case FieldWebsiteURL:
		return r.WebsiteURL
	case FieldWebsiteAnchor:
		return r.WebsiteAnchor
	case FieldHours:
		return r.Hours
	}
	return ""
}

// Set assigns the value for the given field kind.
func (r *FieldRecord) Set(kind FieldKind, value string) {
	switch kind {
	case FieldEntityName:
		r.EntityName = value
	case FieldAddress:
		r.Address = value
	case FieldPhone:
		r.Phone = value
	case FieldWebsiteURL:
		r.WebsiteURL = value
	case FieldWebsiteAnchor:
		r.WebsiteAnchor = value
	case FieldHours:
		r.Hours = value
	}
}

// AnyNonEmpty reports whether at least one raw field carries a value. A fully
// empty record is what a failed or fruitless scrape produces.
func (r FieldRecord) AnyNonEmpty() bool {
	for _, kind := range AllFieldKinds() {
		if r.Get(kind) != "" {
			return true
		}
	}
	return false
}

// SSOTRecord is the authoritative record a business certifies as correct. It
// shares the field shape of FieldRecord and is read-only to the engine.
type SSOTRecord = FieldRecord

// Client binds a business's SSOT record to its five per-site listing URLs.
type Client struct {
	Name string          `json:"name" yaml:"name"`
	SSOT SSOTRecord      `json:"ssot" yaml:"ssot"`
	URLs map[Site]string `json:"urls" yaml:"urls"`
}

// Validate checks that the client names only known sites.
func (c *Client) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("client has no name")
	}
	for site := range c.URLs {
		if !site.Valid() {
			return fmt.Errorf("client %q: unknown site %q", c.Name, site)
		}
	}
	return nil
}

type clientFile struct {
	Clients []Client `yaml:"clients"`
}

// LoadClients reads a YAML client file. The file holds one or more clients,
// each with an SSOT record and per-site URLs.
func LoadClients(path string) ([]Client, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clients file: %w", err)
	}

	var cf clientFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return nil, fmt.Errorf("parse clients yaml: %w", err)
	}
	if len(cf.Clients) == 0 {
		return nil, fmt.Errorf("%s contains no clients", path)
	}

	for i := range cf.Clients {
		if err := cf.Clients[i].Validate(); err != nil {
			return nil, err
		}
	}
	return cf.Clients, nil
}
