package zonetemplate

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/miekg/dns"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// RecordForm is the raw add record input. TTL and Prio stay strings so a
// rejected value can be shown back to the user unchanged.
type RecordForm struct {
	Name    string `form:"name"    validate:"required,max=255"`
	Type    string `form:"type"    validate:"required,max=10"`
	Content string `form:"content" validate:"required,max=65535"`
	TTL     string `form:"ttl"`
	Prio    string `form:"prio"`
	Commit  string `form:"commit"`
}

// NewRecordForm returns the form as it is first shown.
func NewRecordForm(defaultTTL uint32) RecordForm {
	return RecordForm{
		Name: PlaceholderZone,
		TTL:  strconv.FormatUint(uint64(defaultTTL), 10),
		Prio: "0",
	}
}

// ApplyDefaults fills in the values a user left empty or invalid: the name
// falls back to [ZONE], a non numeric TTL to defaultTTL and a non numeric
// priority to 0. A numeric value too large for its field is an error.
func (f *RecordForm) ApplyDefaults(defaultTTL uint32) error {
	if f.Name == "" {
		f.Name = PlaceholderZone
	}

	if _, err := strconv.ParseUint(f.TTL, 10, 32); errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: ttl %s", ErrOutOfRange, f.TTL)
	} else if err != nil {
		f.TTL = strconv.FormatUint(uint64(defaultTTL), 10)
	}

	if _, err := strconv.ParseUint(f.Prio, 10, 16); errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: prio %s", ErrOutOfRange, f.Prio)
	} else if err != nil {
		f.Prio = "0"
	}

	return nil
}

// Record converts the form into a template record of templateID.
// ApplyDefaults must have run before.
func (f *RecordForm) Record(templateID uint64) models.ZoneTemplateRecord {
	ttl, _ := strconv.ParseUint(f.TTL, 10, 32)
	prio, _ := strconv.ParseUint(f.Prio, 10, 16)

	return models.ZoneTemplateRecord{
		ZoneTemplateID: templateID,
		Name:           strings.TrimSpace(f.Name),
		Type:           strings.ToUpper(strings.TrimSpace(f.Type)),
		Content:        strings.TrimSpace(f.Content),
		TTL:            uint32(ttl),
		Prio:           uint16(prio),
	}
}

// Reset clears the form after a successful add.
func (f *RecordForm) Reset() {
	*f = RecordForm{}
}

// Validator checks template records.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Form checks the field constraints of f.
func (val *Validator) Form(f *RecordForm) error {
	return val.v.Struct(f)
}

// Record checks rec the way PowerDNS will see it once the placeholders are
// expanded for an example zone.
func (val *Validator) Record(rec *models.ZoneTemplateRecord) error {
	if !IsKnownType(rec.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownType, rec.Type)
	}

	vars := sampleVars()

	name := vars.Expand(rec.Name)
	if _, ok := dns.IsDomainName(name); !ok || strings.Contains(name, "[") {
		return fmt.Errorf("%w: %q", ErrInvalidName, rec.Name)
	}

	if !dns.IsSubDomain(dns.Fqdn(vars.Zone), dns.Fqdn(name)) {
		return fmt.Errorf("%w: %q is outside of %s", ErrInvalidName, rec.Name, PlaceholderZone)
	}

	content := vars.Expand(rec.Content)
	if content == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidContent)
	}

	return checkContent(rec.Type, content)
}

func checkContent(rrType, content string) error {
	switch rrType {
	case "A":
		if addr, err := netip.ParseAddr(content); err != nil || !addr.Is4() {
			return fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidContent, content)
		}
	case "AAAA":
		if addr, err := netip.ParseAddr(content); err != nil || !addr.Is6() || addr.Is4In6() {
			return fmt.Errorf("%w: %q is not an IPv6 address", ErrInvalidContent, content)
		}
	case "CNAME", "NS", "PTR", "DNAME", "ALIAS":
		if _, ok := dns.IsDomainName(content); !ok || strings.ContainsAny(content, " \t") {
			return fmt.Errorf("%w: %q is not a hostname", ErrInvalidContent, content)
		}
	case "SOA":
		if len(strings.Fields(content)) != 7 { //nolint:mnd
			return fmt.Errorf("%w: SOA needs 7 fields, got %q", ErrInvalidContent, content)
		}
	}

	return nil
}
