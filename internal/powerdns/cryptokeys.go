package powerdns

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strconv"

	pdnsapi "github.com/joeig/go-powerdns/v3"
	"github.com/miekg/dns"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/dnssec"
)

// CryptokeyStore serves DNSSEC zone keys from the PowerDNS cryptokeys endpoint.
type CryptokeyStore struct{}

// List implements dnssec.KeyStore.
func (CryptokeyStore) List(ctx context.Context, zone string) ([]dnssec.Key, error) {
	if Engine.Client == nil {
		return nil, ErrClientNotInitialized
	}

	cks, err := Engine.Cryptokeys.List(ctx, zone)
	if err != nil {
		return nil, err
	}

	keys := make([]dnssec.Key, 0, len(cks))
	for i := range cks {
		keys = append(keys, dnssec.FromCryptokey(zone, &cks[i]))
	}

	return keys, nil
}

// Get implements dnssec.KeyStore.
func (CryptokeyStore) Get(ctx context.Context, zone string, id uint64) (*dnssec.Key, error) {
	if Engine.Client == nil {
		return nil, ErrClientNotInitialized
	}

	ck, err := Engine.Cryptokeys.Get(ctx, zone, id)
	if err != nil {
		return nil, err
	}

	key := dnssec.FromCryptokey(zone, ck)

	return &key, nil
}

// SetActive implements dnssec.KeyStore. The client library has no call for it,
// so the PUT is built here with the engine's HTTP client and API key.
func (CryptokeyStore) SetActive(ctx context.Context, zone string, id uint64, active bool) error {
	if Engine.Client == nil {
		return ErrClientNotInitialized
	}

	endpoint, err := url.Parse(Engine.BaseURL)
	if err != nil {
		return err
	}

	endpoint.Path = path.Join("/api/v1/servers", Engine.VHost, "zones", dns.Fqdn(zone),
		"cryptokeys", strconv.FormatUint(id, 10))

	body, err := json.Marshal(pdnsapi.Cryptokey{Active: &active})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if Engine.apiKey != "" {
		req.Header.Set("X-API-Key", Engine.apiKey)
	}

	for k, v := range Engine.Headers {
		req.Header.Set(k, v)
	}

	resp, err := Engine.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &pdnsapi.Error{Status: resp.Status, StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = resp.Status
	}

	return apiErr
}
